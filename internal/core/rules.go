package core

import "github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in structural
// policy set. These rules run at transaction commit and keep the
// configuration internally consistent; the compatibility check engine
// (Check and friends) is separate and never blocks a commit.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewCatalogIntegrityRule())
	engine.Register(NewCoreIdentityRule())
	engine.Register(NewRunSelectionRule())
	return engine
}
