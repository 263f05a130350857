package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-xmlform/pkg/model"
)

func TestSortViolations_GroupsByPath(t *testing.T) {
	violations := []model.Violation{
		{Path: "b", Message: "m3"},
		{Path: "a", Message: "m2"},
		{Path: "a/c", Message: "m4"},
		{Path: "a", Message: "m1"},
	}

	model.SortViolations(violations)

	want := []model.Violation{
		{Path: "a", Message: "m1"},
		{Path: "a", Message: "m2"},
		{Path: "a/c", Message: "m4"},
		{Path: "b", Message: "m3"},
	}
	if diff := cmp.Diff(want, violations); diff != "" {
		t.Fatalf("sorted violations mismatch (-want +got):\n%s", diff)
	}
}
