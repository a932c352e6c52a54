package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/damirmikic/betting-models/internal/datasource"
	"github.com/damirmikic/betting-models/internal/logger"
	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/damirmikic/betting-models/internal/pricing"
	"github.com/damirmikic/betting-models/internal/series"
)

var (
	homeID, awayID, leagueName  string
	homeRating, awayRating      float64
	avgHome, avgAway, drawRate  float64
	drawTarget, ratingSensitive float64

	frameProb float64
	bestOf    int
	scoreA    int
	scoreB    int

	formatName string
	matchProb  float64
	oddsA      string
	oddsB      string
)

func init() {
	f := goalsCmd.Flags()
	f.StringVar(&homeID, "home", "", "Home team ID")
	f.StringVar(&awayID, "away", "", "Away team ID")
	f.StringVar(&leagueName, "league", "", "League name in the leagues file")
	f.Float64Var(&homeRating, "home-rating", 0, "Home rating, skips the ratings source")
	f.Float64Var(&awayRating, "away-rating", 0, "Away rating, skips the ratings source")
	f.Float64Var(&avgHome, "avg-home", 0, "League average home goals, skips the leagues source")
	f.Float64Var(&avgAway, "avg-away", 0, "League average away goals")
	f.Float64Var(&drawRate, "draw-rate", 0, "League draw rate")
	f.Float64Var(&drawTarget, "draw-target", 0, "Draw probability to calibrate the correlation against")
	f.Float64Var(&ratingSensitive, "rating-sensitivity", 0, "Goal-rate sensitivity to the rating difference")
	_ = goalsCmd.MarkFlagRequired("home")
	_ = goalsCmd.MarkFlagRequired("away")

	f = seriesCmd.Flags()
	f.Float64Var(&frameProb, "prob", 0.5, "Probability side A wins a single frame")
	f.IntVar(&bestOf, "best-of", 0, "Series length (odd)")
	f.IntVar(&scoreA, "score-a", 0, "Frames already won by side A")
	f.IntVar(&scoreB, "score-b", 0, "Frames already won by side B")
	_ = seriesCmd.MarkFlagRequired("best-of")

	f = formatCmd.Flags()
	f.StringVar(&formatName, "format", "bo5", "Set format: bo5, bo7 or generic:<sets to win>")
	f.Float64Var(&matchProb, "prob", 0, "Fair match probability for side A")
	f.StringVar(&oddsA, "odds-a", "", "Quoted price for side A (decimal or fractional)")
	f.StringVar(&oddsB, "odds-b", "", "Quoted price for side B (decimal or fractional)")
	formatCmd.MarkFlagsRequiredTogether("odds-a", "odds-b")
	formatCmd.MarkFlagsMutuallyExclusive("prob", "odds-a")
	formatCmd.MarkFlagsOneRequired("prob", "odds-a")
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Price 1X2, totals, both-teams-to-score and correct score for a fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		home, away, err := resolveTeams(ctx, cmd)
		if err != nil {
			return err
		}
		league, err := resolveLeague(ctx, cmd)
		if err != nil {
			return err
		}

		cc := correlationConfig(cmd)
		m := margins(cmd)
		cc.Margins = &m

		quote, err := engine.PriceGoalMarkets(ctx, home, away, league, cc)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), quote)
	},
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Price a best-of-N series, optionally from an in-play score",
	RunE: func(cmd *cobra.Command, args []string) error {
		var score *models.ScoreState
		if cmd.Flags().Changed("score-a") || cmd.Flags().Changed("score-b") {
			score = &models.ScoreState{SideAWins: scoreA, SideBWins: scoreB}
		}

		quote, err := engine.PriceSeriesMarkets(cmd.Context(), frameProb, bestOf, score, margins(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), quote)
	},
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Price set and point markets for a set format from a match price",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := series.ParseFormat(formatName)
		if err != nil {
			return err
		}

		p := matchProb
		if oddsA != "" {
			a, err := odds.ParseOdds(oddsA)
			if err != nil {
				return err
			}
			b, err := odds.ParseOdds(oddsB)
			if err != nil {
				return err
			}
			if p, err = odds.FairFromDecimal(a.InexactFloat64(), b.InexactFloat64()); err != nil {
				return err
			}
		}

		quote, err := engine.PriceFormatMarkets(cmd.Context(), p, format, margins(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), quote)
	},
}

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Show engine version and capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), engine.Info())
	},
}

// resolveTeams uses explicit ratings when both are given, otherwise the ratings source
func resolveTeams(ctx context.Context, cmd *cobra.Command) (models.TeamRating, models.TeamRating, error) {
	home := models.TeamRating{ID: homeID, CurrentRating: homeRating}
	away := models.TeamRating{ID: awayID, CurrentRating: awayRating}
	if cmd.Flags().Changed("home-rating") && cmd.Flags().Changed("away-rating") {
		return home, away, nil
	}

	source, err := datasource.NewRatingsSource(cfg.DataSources, logger.NewSourceLogger(appLog))
	if err != nil {
		return home, away, fmt.Errorf("resolve ratings: %w", err)
	}
	ratings, err := source.FetchRatings(ctx)
	if err != nil {
		return home, away, err
	}
	if home, err = datasource.FindRating(ratings, homeID); err != nil {
		return home, away, err
	}
	if away, err = datasource.FindRating(ratings, awayID); err != nil {
		return home, away, err
	}
	return home, away, nil
}

// resolveLeague uses explicit averages when given, otherwise the leagues source
func resolveLeague(ctx context.Context, cmd *cobra.Command) (models.LeagueBaseline, error) {
	if cmd.Flags().Changed("avg-home") {
		league := models.LeagueBaseline{Name: leagueName, AvgHomeGoals: avgHome, AvgAwayGoals: avgAway}
		if cmd.Flags().Changed("draw-rate") {
			league.DrawRate = &drawRate
		}
		return league, nil
	}
	if leagueName == "" {
		return models.LeagueBaseline{}, fmt.Errorf("either --league or --avg-home/--avg-away must be set")
	}

	source, err := datasource.NewLeagueSource(cfg.DataSources, logger.NewSourceLogger(appLog))
	if err != nil {
		return models.LeagueBaseline{}, err
	}
	leagues, err := source.FetchLeagues(ctx)
	if err != nil {
		return models.LeagueBaseline{}, err
	}
	return datasource.FindLeague(leagues, leagueName)
}

func correlationConfig(cmd *cobra.Command) pricing.CorrelationConfig {
	var cc pricing.CorrelationConfig
	if cmd.Flags().Changed("draw-target") {
		cc.DrawTarget = &drawTarget
	}
	if cmd.Flags().Changed("rating-sensitivity") {
		cc.RatingSensitivity = &ratingSensitive
	}
	return cc
}
