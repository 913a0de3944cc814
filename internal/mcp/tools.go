package mcp

import (
	"fmt"

	"clanpulse/internal/stats"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	periodEnum = []any{string(stats.Period7d), string(stats.Period30d)}
	metricEnum = []any{string(stats.MetricXP), string(stats.MetricMessages), string(stats.MetricBoss)}
	orderEnum  = []any{"desc", "asc"}
	fieldEnum  = []any{
		string(stats.FieldXP7d), string(stats.FieldXP30d), string(stats.FieldTotalXP),
		string(stats.FieldBoss7d), string(stats.FieldBoss30d), string(stats.FieldTotalBoss),
		string(stats.FieldMsgs7d), string(stats.FieldMsgs30d), string(stats.FieldMsgsTotal),
		string(stats.FieldDaysInClan),
	}
	distributionEnum = []any{DistributionHourly, DistributionTenure, DistributionHealth}
	trendMetricEnum  = []any{string(stats.MetricXP), string(stats.MetricMessages)}
)

// inputSchema infers the schema of T and pins the listed properties to a
// closed set of values.
func inputSchema[T any](enums map[string][]any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %T: %v", *new(T), err))
	}
	for name, values := range enums {
		if prop, ok := schema.Properties[name]; ok {
			prop.Enum = values
		}
	}
	return schema
}

func rankMembersTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "rank_members",
		Description: "Rank clan members by one activity metric for the active period. " +
			"Ties are broken alphabetically by username (case-insensitive). " +
			"Pass 'field' instead of 'metric' to rank by a concrete column such as 'total_xp' or 'days_in_clan'. " +
			"Guidance: 'boss' over '30d' falls back to weekly kills when the snapshot has no monthly column; check 'fallback'.",
		InputSchema: inputSchema[RankInput](map[string][]any{
			"metric": metricEnum,
			"field":  fieldEnum,
			"period": periodEnum,
			"order":  orderEnum,
		}),
	}
}

func compositeLeaderboardTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "composite_leaderboard",
		Description: "Engagement leaderboard ranked by msgs*W_msg + boss*W_boss + xp/divisor for the active period. " +
			"Weights come from the snapshot config and can be overridden per call. " +
			"Guidance: 'display_score' is rounded for presentation; the order always follows the unrounded 'score'.",
		InputSchema: inputSchema[CompositeInput](map[string][]any{
			"period": periodEnum,
		}),
	}
}

func purgeCandidatesTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "purge_candidates",
		Description: "List members at risk of removal: terminally inactive (tenure past the threshold and below every floor), " +
			"zero 30-day activity, or long-term ghosts. Sorted by tenure, longest first. " +
			"Thresholds default to the snapshot config and can be overridden per call.",
		InputSchema: inputSchema[PurgeInput](nil),
	}
}

func activityDistributionTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "activity_distribution",
		Description: "Bucketed clan distributions: 'hourly' message heatmap (24 UTC buckets), " +
			"'tenure' bands (0-30, 31-90, 91-180, 181+ days) or 'health' bands by XP gained in the period.",
		InputSchema: inputSchema[DistributionInput](map[string][]any{
			"kind":   distributionEnum,
			"period": periodEnum,
		}),
	}
}

func trendStabilityTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "trend_stability",
		Description: "Individuals and Moving Range chart over the daily clan trend, with weekly averages. " +
			"Status is 'stable', 'volatile' (single days outside the natural limits) or 'shifting' (a sustained run on one side of the average).",
		InputSchema: inputSchema[TrendInput](map[string][]any{
			"metric": trendMetricEnum,
		}),
	}
}

func memberInsightsTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "member_insights",
		Description: "Profile of one member (ranks, purge verdict, outlier status, next XP milestone). " +
			"Without a username, returns the clan highlights and the outlier list instead.",
		InputSchema: inputSchema[InsightsInput](map[string][]any{
			"period": periodEnum,
		}),
	}
}

func dashboardReportTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "dashboard_report",
		Description: "Render the full markdown dashboard for the active snapshot. " +
			"Set 'save' to also write it under the reports folder.",
		InputSchema: inputSchema[ReportInput](map[string][]any{
			"period": periodEnum,
		}),
	}
}

func setPeriodTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_period",
		Description: "Switch the active reporting window used by later calls that omit 'period'.",
		InputSchema: inputSchema[SetPeriodInput](map[string][]any{
			"period": periodEnum,
		}),
	}
}

func updateSettingsTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "update_settings",
		Description: "Override thresholds and weights for later calls, using the snapshot config keys " +
			"(e.g. 'purge_threshold_days', 'leaderboard_weight_boss'). Invalid values are rejected and nothing changes.",
		InputSchema: inputSchema[UpdateSettingsInput](nil),
	}
}

func reloadSnapshotTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "reload_snapshot",
		Description: "Re-read the clan snapshot file, or load a different one when 'path' is given. " +
			"The active period is kept; settings are taken from the new snapshot.",
		InputSchema: inputSchema[ReloadInput](nil),
	}
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, rankMembersTool(), s.handleRankMembers)
	mcp.AddTool(s.mcpServer, compositeLeaderboardTool(), s.handleCompositeLeaderboard)
	mcp.AddTool(s.mcpServer, purgeCandidatesTool(), s.handlePurgeCandidates)
	mcp.AddTool(s.mcpServer, activityDistributionTool(), s.handleActivityDistribution)
	mcp.AddTool(s.mcpServer, trendStabilityTool(), s.handleTrendStability)
	mcp.AddTool(s.mcpServer, memberInsightsTool(), s.handleMemberInsights)
	mcp.AddTool(s.mcpServer, dashboardReportTool(), s.handleDashboardReport)
	mcp.AddTool(s.mcpServer, setPeriodTool(), s.handleSetPeriod)
	mcp.AddTool(s.mcpServer, updateSettingsTool(), s.handleUpdateSettings)
	mcp.AddTool(s.mcpServer, reloadSnapshotTool(), s.handleReloadSnapshot)
}
