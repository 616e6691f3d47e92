package provider

import (
	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// Registry is a dispatch table from chain identifier to builder instance.
type Registry struct {
	providers map[model.Chain]IProvider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: map[model.Chain]IProvider{},
	}
}

func (r *Registry) Register(chain model.Chain, p IProvider) {
	r.providers[chain] = p
}

func (r *Registry) Get(chain model.Chain) (IProvider, error) {
	p, ok := r.providers[chain]
	if !ok {
		return nil, apperror.New(apperror.KindUnsupportedChain, "no provider registered for chain %q", chain)
	}
	return p, nil
}

// SplitTransferrer reports whether the chain's builder can bundle multiple
// destinations into one transaction.
func (r *Registry) SplitTransferrer(chain model.Chain) (ISplitTransferrer, bool) {
	p, ok := r.providers[chain]
	if !ok {
		return nil, false
	}
	st, ok := p.(ISplitTransferrer)
	return st, ok
}

func (r *Registry) Chains() []model.Chain {
	chains := make([]model.Chain, 0, len(r.providers))
	for c := range r.providers {
		chains = append(chains, c)
	}
	return chains
}
