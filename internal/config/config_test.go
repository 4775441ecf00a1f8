package config

import "testing"

func TestPlanLimitsTable(t *testing.T) {
	cases := map[string]int{
		PlanStarter: 2000,
		PlanGrowth:  5000,
		PlanPro:     15000,
	}

	for plan, want := range cases {
		if got := PlanLimits[plan]; got != want {
			t.Fatalf("plan %s: expected limit %d, got %d", plan, want, got)
		}
	}
}

func TestPlanAllowsEnrichment(t *testing.T) {
	if PlanAllowsEnrichment(PlanStarter) {
		t.Fatal("starter plan must not unlock enrichment")
	}
	if !PlanAllowsEnrichment(PlanGrowth) || !PlanAllowsEnrichment(PlanPro) {
		t.Fatal("growth and pro plans must unlock enrichment")
	}
}

func TestValidPlan(t *testing.T) {
	if !ValidPlan("growth") {
		t.Fatal("growth should be a valid plan")
	}
	if ValidPlan("enterprise") {
		t.Fatal("unknown plan accepted")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("OPERATOR_EMAIL", "ops@example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDemoModeWhenNoProviderToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leadpilot")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("OPERATOR_EMAIL", "Ops@Example.com")
	t.Setenv("PROVIDER_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DemoMode() {
		t.Fatal("expected demo mode without PROVIDER_TOKEN")
	}
	if cfg.OperatorEmail != "ops@example.com" {
		t.Fatalf("operator email not lowercased: %q", cfg.OperatorEmail)
	}
	if cfg.ProviderWaitSeconds != 300 {
		t.Fatalf("expected default wait window 300, got %d", cfg.ProviderWaitSeconds)
	}
}
