//go:build integration

// Package integration provides BDD integration tests using Godog/Cucumber.
package integration

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/divvy/backend/test/integration/steps"
)

// TestFeatures runs the Gherkin suite under features/. Scenarios share one
// in-memory database, so they run sequentially and in file order.
func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:      "pretty",
		Paths:       []string{"features"},
		Output:      colors.Colored(os.Stdout),
		Concurrency: 1,
		Randomize:   0,
		Strict:      true,
		TestingT:    t,
		// GODOG_TAGS narrows the run to matching scenarios.
		Tags: os.Getenv("GODOG_TAGS"),
	}

	suite := godog.TestSuite{
		Name:                 "divvy-api",
		ScenarioInitializer:  steps.InitializeScenario,
		TestSuiteInitializer: steps.InitializeTestSuite,
		Options:              &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
