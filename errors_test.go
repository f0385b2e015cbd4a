package pluct_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/pluct"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := pluct.Issues{
		{Path: "/a", Code: pluct.CodeInvalidType},
		{Path: "/b", Code: pluct.CodeDuplicateKey},
		{Path: "/c", Code: pluct.CodeDuplicateKey},
		{Path: "/d", Code: pluct.CodeTruncated},
	}
	require.Equal(t, "invalid_type at /a; duplicate_key at /b; duplicate_key at /c; ... (total 4)", iss.Error())
	require.Empty(t, pluct.Issues{}.Error())
}

func TestAsIssues(t *testing.T) {
	_, ok := pluct.AsIssues(nil)
	require.False(t, ok)

	wrapped := fmt.Errorf("fetch: %w", pluct.Issues{{Path: "/title", Code: pluct.CodeInvalidType}})
	iss, ok := pluct.AsIssues(wrapped)
	require.True(t, ok)
	require.Len(t, iss, 1)

	_, ok = pluct.AsIssues(errors.New("plain"))
	require.False(t, ok)
}
