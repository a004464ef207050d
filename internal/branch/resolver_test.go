package branch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"SafImport/internal/parser"
)

type stubRoster struct {
	homes map[string]string
	calls int
}

func (s *stubRoster) HomeBranch(_ context.Context, code string) (string, error) {
	s.calls++
	if b, ok := s.homes[code]; ok {
		return b, nil
	}
	return "", errors.New("agent not found")
}

func TestResolveExplicitCodeWins(t *testing.T) {
	roster := &stubRoster{homes: map[string]string{"A01": "007"}}
	r := NewResolver(roster, "003")
	drafts := []parser.TransactionDraft{
		{BranchCode: "005", AgentCode: "A01", AgentRaw: "MORONI"},
	}
	r.Resolve(context.Background(), drafts)
	assert.Equal(t, "005", drafts[0].BranchCode)
	assert.Zero(t, roster.calls)
}

func TestResolveSiteNameBeatsGenericName(t *testing.T) {
	r := NewResolver(nil, "")
	drafts := []parser.TransactionDraft{
		{SiteName: "MORONI PORT"},
		{SiteName: "MORONI CENTRE"},
		{AgentRaw: "GUICHET MUTSAMUDU"},
	}
	r.Resolve(context.Background(), drafts)
	assert.Equal(t, "004", drafts[0].BranchCode)
	assert.Equal(t, "001", drafts[1].BranchCode)
	assert.Equal(t, "002", drafts[2].BranchCode)
}

func TestResolveRosterHomeBranch(t *testing.T) {
	roster := &stubRoster{homes: map[string]string{"A01": "006"}}
	r := NewResolver(roster, "003")
	drafts := []parser.TransactionDraft{
		{AgentCode: "A01"},
		{AgentCode: "A01"},
		{AgentCode: "A01"},
	}
	r.Resolve(context.Background(), drafts)
	for _, d := range drafts {
		assert.Equal(t, "006", d.BranchCode)
	}
	assert.Equal(t, 1, roster.calls, "roster lookups are cached per run")
}

func TestResolveOperatorDefault(t *testing.T) {
	roster := &stubRoster{homes: map[string]string{}}
	r := NewResolver(roster, "003")
	drafts := []parser.TransactionDraft{{AgentCode: "UNKNOWN"}}
	r.Resolve(context.Background(), drafts)
	assert.Equal(t, "003", drafts[0].BranchCode)
}

func TestResolveMultiBranchFallsToHeadOffice(t *testing.T) {
	r := NewResolver(nil, "MULTI")
	drafts := []parser.TransactionDraft{{}}
	r.Resolve(context.Background(), drafts)
	assert.Equal(t, "001", drafts[0].BranchCode)
}
