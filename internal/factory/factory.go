// Package factory wires a Pod and its TokenDrop as a linked pair.
package factory

import (
	"errors"
	"fmt"

	"PodVault/internal/pod"
	"PodVault/internal/token"
	"PodVault/internal/tokendrop"
)

// ErrInvalidTokenDropFactory is returned when constructed without a drop
// constructor.
var ErrInvalidTokenDropFactory = errors.New("PodFactory:invalid-token-drop-factory")

// DropFactory builds a TokenDrop for a share ledger and reward book.
type DropFactory func(measure tokendrop.Measure, asset *token.Book, account string) (*tokendrop.TokenDrop, error)

// Factory creates linked Pod + TokenDrop pairs.
type Factory struct {
	drops DropFactory
}

// New creates a pod factory backed by the given drop factory.
func New(drops DropFactory) (*Factory, error) {
	if drops == nil {
		return nil, ErrInvalidTokenDropFactory
	}
	return &Factory{drops: drops}, nil
}

// CreatePod builds a pod from cfg, then builds a TokenDrop against the pod's
// share ledger and attaches it. The drop holds reward under the pod account
// suffixed with ":drop". Skipped when cfg.Reward is nil: the pod then runs
// without a distributor until one is attached administratively.
func (f *Factory) CreatePod(cfg pod.Config) (*pod.Pod, *tokendrop.TokenDrop, error) {
	p, err := pod.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create pod: %w", err)
	}
	if cfg.Reward == nil {
		return p, nil, nil
	}
	drop, err := f.drops(p.Shares(), cfg.Reward, cfg.Account+":drop")
	if err != nil {
		return nil, nil, fmt.Errorf("create token drop: %w", err)
	}
	if err := p.SetTokenDrop(cfg.Owner, drop); err != nil {
		return nil, nil, fmt.Errorf("attach token drop: %w", err)
	}
	return p, drop, nil
}
