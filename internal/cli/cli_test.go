package cli

import (
	"bytes"
	"strings"
	"testing"

	_ "github.com/pgEdge/pgedge-dataclean/internal/datasets/fooddelivery"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "pgedge-dataclean") {
		t.Errorf("Expected version output, got %q", out)
	}
}

func TestDatasetsCommand(t *testing.T) {
	out, err := execute(t, "datasets")
	if err != nil {
		t.Fatalf("datasets failed: %v", err)
	}
	if !strings.Contains(out, "fooddelivery") {
		t.Errorf("Expected fooddelivery in output, got %q", out)
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules", "--dataset", "fooddelivery", "--format", "json")
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if !strings.Contains(out, `"menu.dedup"`) {
		t.Errorf("Expected menu.dedup in output, got %q", out)
	}
}

func TestRulesUnknownDataset(t *testing.T) {
	if _, err := execute(t, "rules", "--dataset", "nonexistent"); err == nil {
		t.Error("Expected error for unknown dataset")
	}
	dataset = ""
}

func TestCleanRequiresConnection(t *testing.T) {
	_, err := execute(t, "clean", "--dataset", "fooddelivery", "--connection", "")
	if err == nil || !strings.Contains(err.Error(), "connection string is required") {
		t.Errorf("Expected missing connection error, got %v", err)
	}
}
