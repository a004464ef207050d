package branch

import (
	"context"
	"strings"

	"SafImport/internal/config"
	"SafImport/internal/parser"
)

// Roster answers home-branch lookups for counter agents. The production
// implementation reads the HR roster tables; tests supply a stub.
type Roster interface {
	HomeBranch(ctx context.Context, agentCode string) (string, error)
}

// Branch names as they appear inside partner exports, mapped to the
// internal codes. Matching is contains, on the uppercased cell.
var nameCodes = []struct {
	name string
	code string
}{
	{"MORONI", "001"},
	{"SIEGE", "001"},
	{"ANJOUAN", "002"},
	{"MUTSAMUDU", "002"},
	{"MOHELI", "003"},
	{"FOMBONI", "003"},
	{"PHILIPS", "004"},
	{"CALTEX", "005"},
	{"DZAHANI", "006"},
	{"IVEMBENI", "007"},
	{"OASIS", "008"},
	{"MANDZA", "009"},
	{"CORNICHE", "010"},
	{"MKAZI", "011"},
}

// Western Union site labels carry their own naming; the specific
// entries take precedence over the generic island names above.
var siteCodes = []struct {
	name string
	code string
}{
	{"MORONI CENTRE", "001"},
	{"MORONI PORT", "004"},
}

// Resolver assigns a branch code to every draft of an import run. Roster
// lookups are cached for the run so a thousand-row file costs one query
// per distinct agent.
type Resolver struct {
	roster        Roster
	defaultBranch string
	cache         map[string]string
}

// NewResolver builds a resolver for one run. defaultBranch is the
// operator's own branch; pass the multi-branch sentinel when the
// operator imports for the whole network.
func NewResolver(roster Roster, defaultBranch string) *Resolver {
	return &Resolver{
		roster:        roster,
		defaultBranch: defaultBranch,
		cache:         make(map[string]string),
	}
}

// Resolve fills in BranchCode on each draft in place, in priority order:
// explicit code from the file, then site or branch names, then the
// agent's roster home branch, then the operator default, then head
// office.
func (r *Resolver) Resolve(ctx context.Context, drafts []parser.TransactionDraft) {
	for i := range drafts {
		drafts[i].BranchCode = r.resolveOne(ctx, &drafts[i])
	}
}

func (r *Resolver) resolveOne(ctx context.Context, d *parser.TransactionDraft) string {
	if d.BranchCode != "" {
		return d.BranchCode
	}
	if code := matchName(d.SiteName); code != "" {
		return code
	}
	if code := matchName(d.AgentRaw); code != "" {
		return code
	}
	if d.AgentCode != "" && r.roster != nil {
		if code, ok := r.cache[d.AgentCode]; ok {
			if code != "" {
				return code
			}
		} else {
			code, err := r.roster.HomeBranch(ctx, d.AgentCode)
			if err != nil {
				code = ""
			}
			r.cache[d.AgentCode] = code
			if code != "" {
				return code
			}
		}
	}
	if r.defaultBranch != "" && r.defaultBranch != config.MultiBranchSentinel {
		return r.defaultBranch
	}
	return config.HeadOfficeBranch
}

// matchName maps a free-text site or agent label to a branch code.
func matchName(label string) string {
	if label == "" {
		return ""
	}
	u := strings.ToUpper(label)
	for _, e := range siteCodes {
		if strings.Contains(u, e.name) {
			return e.code
		}
	}
	for _, e := range nameCodes {
		if strings.Contains(u, e.name) {
			return e.code
		}
	}
	return ""
}
