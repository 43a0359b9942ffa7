package config

import "testing"

func validBase() Config {
	var c Config
	c.Wallet.PrivateKey = "0xabc"
	c.Wallet.ChainID = 137
	c.API.CLOBBaseURL = "https://clob.example"
	c.Core.TokenID = "token-1"
	c.Core.MaxExposure = 10
	c.Core.TargetDepth = 5
	return c
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRequiresTokenID(t *testing.T) {
	c := validBase()
	c.Core.TokenID = ""

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error when core.token_id is empty")
	}
}

func TestValidateRequiresPositivePolicyParams(t *testing.T) {
	c := validBase()
	c.Core.MaxExposure = 0
	c.Core.TargetDepth = 0

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error when max_exposure/target_depth are zero")
	}
}

func TestValidateRequiresPrivateKey(t *testing.T) {
	c := validBase()
	c.Wallet.PrivateKey = ""

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error when wallet.private_key is empty")
	}
}
