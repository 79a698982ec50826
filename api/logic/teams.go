/* teams.go
 * Contains the team name resolution used when applying results: score feeds
 * spell school names inconsistently, so winner names are fuzzy matched onto
 * the bracket's canonical team names before validation
 */

package logic

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"bracket-pool/api/shared"
)

// ResolveTeamName maps an externally spelled team name onto the canonical
// name carried by the tournament state. Exact matches (after trim/lowercase)
// win; otherwise the best fuzzy match is taken. Returns an error when nothing
// plausible matches.
func ResolveTeamName(input string, state *shared.TournamentState) (string, error) {
	lookup := make(map[string]string, len(state.Teams))
	lowered := make([]string, 0, len(state.Teams))
	for name := range state.Teams {
		lower := shared.NormalizeName(name)
		lookup[lower] = name
		lowered = append(lowered, lower)
	}

	target := shared.NormalizeName(input)
	if canonical, ok := lookup[target]; ok {
		return canonical, nil
	}

	results := fuzzy.RankFind(target, lowered)
	if len(results) == 0 {
		return "", &shared.NotFoundError{Resource: "team", ID: input}
	}
	// Prefer an exact hit among multiple candidates, else the best ranked.
	best := results[0].Target
	for _, r := range results {
		if r.Target == target {
			best = r.Target
			break
		}
	}
	return lookup[best], nil
}

// ResolveTeam resolves a name and returns the full team value with its seed
// and region from the state's team records.
func ResolveTeam(input string, state *shared.TournamentState) (shared.Team, error) {
	name, err := ResolveTeamName(input, state)
	if err != nil {
		return shared.Team{}, err
	}
	rec, ok := state.Teams[name]
	if !ok {
		return shared.Team{}, &shared.NotFoundError{Resource: "team", ID: input}
	}
	return shared.Team{Name: name, Seed: rec.Seed, Region: rec.Region}, nil
}

// DescribeInvalidTeams formats a validation message for a batch of
// unresolvable names.
func DescribeInvalidTeams(names []string) error {
	if len(names) == 0 {
		return nil
	}
	var str strings.Builder
	str.WriteString("the following team names are invalid:")
	for i := range names {
		str.WriteString(fmt.Sprintf(" '%s'", names[i]))
	}
	return &shared.ValidationError{Message: str.String()}
}
