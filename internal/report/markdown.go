package report

import (
	"fmt"
	"strings"
	"time"

	"clanpulse/internal/roster"
	"clanpulse/internal/stats"
	"clanpulse/internal/visuals"
)

// Options control markdown rendering.
type Options struct {
	// Charts embeds mermaid blocks next to the tables.
	Charts bool
}

// Markdown renders r as a markdown document.
func Markdown(r *Report, opts Options) string {
	var sb strings.Builder
	period := r.Context.Period

	sb.WriteString("# Clan Activity Report\n\n")
	generated := "unknown"
	if !r.GeneratedAt.IsZero() {
		generated = r.GeneratedAt.UTC().Format(time.DateTime)
	}
	sb.WriteString(fmt.Sprintf("Report `%s` | snapshot generated %s | period **%s**\n\n", r.ID, generated, period))

	if len(r.Warnings) > 0 {
		sb.WriteString("> **Data warnings**\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("> - %s\n", w))
		}
		sb.WriteString("\n")
	}

	writeSummary(&sb, r)
	writeHighlights(&sb, r)

	sb.WriteString("## Engagement Leaderboard\n\n")
	w := r.Context.Settings
	sb.WriteString(fmt.Sprintf("Score = messages x %s + boss kills x %s + XP / %s\n\n",
		trimFloat(w.LeaderboardMsgWeight), trimFloat(w.LeaderboardBossWeight), visuals.FormatCount(int64(w.XPDivisor))))
	writeRanking(&sb, r.Composite, "Score", visuals.FormatScore)
	if opts.Charts {
		writeChart(&sb, visuals.GenerateLeaderboardChart("Engagement Score", "Score", r.Composite))
	}

	sb.WriteString(fmt.Sprintf("## Top XP (%s)\n\n", period))
	writeRanking(&sb, r.XPLeaders, "XP", countFormat)
	if opts.Charts {
		writeChart(&sb, visuals.GenerateLeaderboardChart("Top XP", "XP", r.XPLeaders))
	}

	sb.WriteString(fmt.Sprintf("## Top Messengers (%s)\n\n", period))
	writeRanking(&sb, r.MessageLeaders, "Messages", countFormat)

	sb.WriteString(fmt.Sprintf("## Top Boss Killers (%s)\n\n", period))
	if r.Highlights.BossFallback {
		sb.WriteString("_The snapshot has no 30-day boss column; 7-day kills are shown._\n\n")
	}
	writeRanking(&sb, r.BossLeaders, "Kills", countFormat)

	writePurge(&sb, r)
	writeOutliers(&sb, r)
	writeDistributions(&sb, r, opts)
	writeTrend(&sb, r, opts)
	writeProjections(&sb, r)

	return sb.String()
}

func writeSummary(sb *strings.Builder, r *Report) {
	s := r.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Members | %s |\n", visuals.FormatCount(int64(s.TotalMembers))))
	sb.WriteString(fmt.Sprintf("| Active (30d) | %s |\n", visuals.FormatCount(int64(s.ActiveMembers))))
	sb.WriteString(fmt.Sprintf("| XP gained | %s |\n", visuals.FormatCount(s.TotalXP)))
	sb.WriteString(fmt.Sprintf("| Messages | %s |\n", visuals.FormatCount(s.TotalMessages)))
	sb.WriteString(fmt.Sprintf("| Boss kills | %s |\n", visuals.FormatCount(s.TotalBoss)))
	sb.WriteString(fmt.Sprintf("| Median XP | %s |\n", visuals.FormatCompact(s.MedianXP)))
	sb.WriteString(fmt.Sprintf("| Median messages | %s |\n\n", visuals.FormatCompact(s.MedianMessages)))
}

func writeHighlights(sb *strings.Builder, r *Report) {
	h := r.Highlights
	sb.WriteString("## Highlights\n\n")
	card := func(label string, e *stats.RankedEntry, unit string) {
		if e == nil {
			sb.WriteString(fmt.Sprintf("- **%s**: none\n", label))
			return
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %s (%s %s)\n", label, e.Member.Username, visuals.FormatCompact(e.Value), unit))
	}
	card("Top XP", h.TopXP, "XP")
	card("Top messenger", h.TopMessenger, "messages")
	card("Rising star", h.RisingStar, "messages this week")
	sb.WriteString(fmt.Sprintf("- **Active members**: %d\n", h.ActiveMembers))
	if len(h.ZeroWeek) > 0 {
		sb.WriteString(fmt.Sprintf("- **Silent this week**: %s\n", joinNames(h.ZeroWeek)))
	}
	if len(h.Watchlist) > 0 {
		sb.WriteString(fmt.Sprintf("- **Watchlist** (no messages in 30d): %s\n", joinNames(h.Watchlist)))
	}
	sb.WriteString("\n")
}

func writeRanking(sb *strings.Builder, entries []stats.RankedEntry, valueLabel string, format func(float64) string) {
	if len(entries) == 0 {
		sb.WriteString("_No members._\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("| # | Member | %s |\n|---|---|---|\n", valueLabel))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", e.Rank, escape(e.Member.Username), format(e.Value)))
	}
	sb.WriteString("\n")
}

func writePurge(sb *strings.Builder, r *Report) {
	sb.WriteString("## Purge Candidates\n\n")
	if len(r.PurgeCandidates) == 0 {
		sb.WriteString("_Nobody matches the purge rules._\n\n")
		return
	}
	sb.WriteString("| Member | Status | Priority | Days | XP 30d | Msgs 30d |\n|---|---|---|---|---|---|\n")
	for _, c := range r.PurgeCandidates {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %d |\n",
			escape(c.Username), c.Status, c.Priority, c.DaysInClan, visuals.FormatCount(c.XP30d), c.Msgs30d))
	}
	sb.WriteString("\n")
}

func writeOutliers(sb *strings.Builder, r *Report) {
	if len(r.Outliers) == 0 {
		return
	}
	sb.WriteString("## Outliers\n\n")
	sb.WriteString("| Member | Pattern | Reason | Severity |\n|---|---|---|---|\n")
	for _, o := range r.Outliers {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", escape(o.Username), o.Status, o.Reason, o.Severity))
	}
	sb.WriteString("\n")
}

func writeDistributions(sb *strings.Builder, r *Report, opts Options) {
	sb.WriteString("## Activity Distribution\n\n")
	if peak, ok := stats.PeakBucket(r.Heatmap); ok {
		sb.WriteString(fmt.Sprintf("Busiest hour: **%s:00** (%s messages)\n\n", peak.BucketKey, visuals.FormatCompact(peak.Value)))
	} else {
		sb.WriteString("_No hourly activity data in this snapshot._\n\n")
	}

	sb.WriteString("| Tenure | Members |\n|---|---|\n")
	for _, b := range r.TenureBands {
		sb.WriteString(fmt.Sprintf("| %s days | %.0f |\n", b.BucketKey, b.Value))
	}
	sb.WriteString("\n| Health | Members |\n|---|---|\n")
	for _, b := range r.HealthBands {
		sb.WriteString(fmt.Sprintf("| %s | %.0f |\n", b.BucketKey, b.Value))
	}
	sb.WriteString("\n")

	if opts.Charts {
		writeChart(sb, visuals.GenerateHeatmapChart(r.Heatmap))
		writeChart(sb, visuals.GenerateDistributionPie("Tenure", r.TenureBands))
		writeChart(sb, visuals.GenerateDistributionPie("Clan Health", r.HealthBands))
	}
}

func writeTrend(sb *strings.Builder, r *Report, opts Options) {
	sb.WriteString("## Daily Trend\n\n")
	if len(r.Trend) == 0 {
		sb.WriteString("_No history in this snapshot._\n\n")
		return
	}
	first, last := r.Trend[0], r.Trend[len(r.Trend)-1]
	sb.WriteString(fmt.Sprintf("%d days from %s to %s. XP trend is **%s**, message trend is **%s**.\n\n",
		len(r.Trend), first.Date, last.Date, r.XPStability.Status, r.MsgStability.Status))

	for _, s := range r.XPStability.Daily.Signals {
		sb.WriteString(fmt.Sprintf("- XP %s on %s: %s\n", s.Type, s.Key, s.Description))
	}
	for _, s := range r.MsgStability.Daily.Signals {
		sb.WriteString(fmt.Sprintf("- Messages %s on %s: %s\n", s.Type, s.Key, s.Description))
	}
	if len(r.XPStability.Daily.Signals)+len(r.MsgStability.Daily.Signals) > 0 {
		sb.WriteString("\n")
	}

	if opts.Charts {
		writeChart(sb, visuals.GenerateTrendChart(r.Trend, stats.MetricXP))
		writeChart(sb, visuals.GenerateTrendChart(r.Trend, stats.MetricMessages))
		writeChart(sb, visuals.GenerateStabilityChart(r.XPStability))
	}
}

func writeProjections(sb *strings.Builder, r *Report) {
	if len(r.Milestones) > 0 {
		sb.WriteString("## Next Milestones\n\n")
		sb.WriteString("| Member | Milestone | XP / day | Days left |\n|---|---|---|---|\n")
		for _, m := range r.Milestones {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.1f |\n", escape(m.Username), m.Label, visuals.FormatCompact(m.DailyRate), m.DaysLeft))
		}
		sb.WriteString("\n")
	}

	if len(r.Annualized) > 0 {
		sb.WriteString("## Annualized Contribution\n\n")
		writeRanking(sb, r.Annualized, "XP / year", visuals.FormatCompact)
	}
}

func writeChart(sb *strings.Builder, chart string) {
	if chart == "" {
		return
	}
	sb.WriteString(chart)
	sb.WriteString("\n\n")
}

func countFormat(v float64) string {
	return visuals.FormatCount(int64(v))
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func joinNames(members []roster.Member) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Username
	}
	return strings.Join(names, ", ")
}
