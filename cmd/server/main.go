package main

import (
	"github.com/dwarvesf/payment-forwarder/internal/server"
)

func main() {
	server.Init()
}
