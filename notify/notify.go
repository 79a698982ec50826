/* notify.go
 * Posts analysis summaries to a Discord channel. Requires a discord bot token
 * and channel id, both of which are passed in from main.go
 */

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"bracket-pool/api/analysis"
)

// Discord rejects messages over 2000 characters, so long reports are split.
const maxMessageLen = 2000

// Notifier sends report summaries to one channel. Sends are rate limited so a
// burst of scheduled runs can't trip Discord's limits.
type Notifier struct {
	Session   DiscordSession
	ChannelID string
	Limiter   *rate.Limiter
}

// NewNotifier creates a notifier with an authenticated Discord session.
func NewNotifier(botToken string, channelID string) (*Notifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channelID is required but none was provided")
	}
	discord, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &Notifier{
		Session:   discord,
		ChannelID: channelID,
		Limiter:   rate.NewLimiter(rate.Limit(1), 3),
	}, nil
}

// PostReport formats a report summary and sends it to the channel, splitting
// across messages when the summary exceeds the Discord length cap.
func (n *Notifier) PostReport(ctx context.Context, report *analysis.AnalysisReport) error {
	summary := FormatReport(report)
	for _, chunk := range splitMessage(summary) {
		if err := n.Limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := n.Session.ChannelMessageSend(n.ChannelID, chunk); err != nil {
			return fmt.Errorf("failed to send report message: %w", err)
		}
	}
	return nil
}

// FormatReport renders the headline numbers of a report as a Discord message.
func FormatReport(report *analysis.AnalysisReport) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("**Bracket Pool Analysis: %s**\n", report.RoundName))
	res.WriteString(fmt.Sprintf("%s | %d brackets | %d possible outcomes\n", report.RoundProgress, report.TotalBrackets, report.TotalPossibleOutcomes))
	if report.Cancelled {
		res.WriteString("Analysis was interrupted; numbers below are partial\n")
	}

	if len(report.PodiumContenders) > 0 {
		res.WriteString("\n__Podium contenders__\n")
		limit := len(report.PodiumContenders)
		if limit > 10 {
			limit = 10
		}
		for i := 0; i < limit; i++ {
			c := report.PodiumContenders[i]
			res.WriteString(fmt.Sprintf("%d. %s (entry %d): %d pts, win %.1f%%, podium %.1f%%\n",
				i+1, c.ParticipantName, c.EntryNumber, c.CurrentScore, c.PlacePercentages.First, c.PlacePercentages.Podium))
		}
	}
	res.WriteString(fmt.Sprintf("\n%d players still have a shot at first, %d are off the podium in every outcome\n",
		report.PlayersWithWinChance, report.PlayersWithNoPodiumChance))

	if len(report.ChampionshipPicks) > 0 {
		res.WriteString("\n__Most picked champions__\n")
		limit := len(report.ChampionshipPicks)
		if limit > 5 {
			limit = 5
		}
		for i := 0; i < limit; i++ {
			p := report.ChampionshipPicks[i]
			res.WriteString(fmt.Sprintf("%s: %d picks (%.1f%%)\n", p.Team, p.Count, p.Percentage))
		}
	}

	if len(report.RareCorrectPicks) > 0 {
		res.WriteString("\n__Rare correct picks__\n")
		for _, p := range report.RareCorrectPicks {
			res.WriteString(fmt.Sprintf("%s over %s: only %d/%d brackets (%.1f%%) called it\n",
				p.Winner, p.Loser, p.CorrectPicks, p.TotalPicks, p.Percentage))
		}
	}

	for _, w := range report.Warnings {
		res.WriteString(fmt.Sprintf("\nWarning: %s", w))
	}
	return res.String()
}

// splitMessage breaks content on line boundaries into Discord-sized chunks.
func splitMessage(content string) []string {
	if len(content) <= maxMessageLen {
		return []string{content}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(content, "\n") {
		if current.Len()+len(line) > maxMessageLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
