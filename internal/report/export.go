package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/savegress/wagerwatch/pkg/models"
)

// ExportCSV writes the report tables as CSV sections for the document
// rendering collaborator. All figures are already computed; this step
// only lays them out.
func ExportCSV(rpt *models.RiskReport, w io.Writer) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"Player Risk Report"})
	writer.Write([]string{"Report ID", rpt.ID})
	writer.Write([]string{"Generated", rpt.GeneratedAt.Format(time.RFC3339)})
	writer.Write([]string{"Date Range", rpt.StartDate.Format("2006-01-02"), rpt.EndDate.Format("2006-01-02")})
	provider := rpt.Provider
	if provider == "" {
		provider = "All"
	}
	writer.Write([]string{"Provider", provider})
	writer.Write([]string{"Granularity", rpt.Granularity})
	writer.Write([]string{})

	writer.Write([]string{"Wager Trend"})
	writer.Write([]string{"Period", "Players", "Total Wager", "Total Hold"})
	for _, p := range rpt.Periods {
		writer.Write([]string{
			p.Period.Format("2006-01-02"),
			strconv.Itoa(p.TotalPlayers),
			p.TotalWager.String(),
			p.TotalHold.String(),
		})
	}
	writer.Write([]string{})

	writer.Write([]string{"Risk Distribution"})
	writer.Write([]string{"Level", "Players", "Total Wager", "Total Hold"})
	for _, b := range rpt.RiskBreakdown {
		writer.Write([]string{
			b.Label,
			strconv.Itoa(b.Players),
			b.TotalWager.String(),
			b.TotalHold.String(),
		})
	}
	writer.Write([]string{})

	writer.Write([]string{"Risk Flags by Occupation"})
	writer.Write([]string{"Occupation", "Players", "Big Bet", "High Frequency", "Daily Spike"})
	for _, o := range rpt.OccupationFlags {
		writer.Write([]string{
			o.Occupation,
			strconv.Itoa(o.Players),
			strconv.Itoa(o.BigBet),
			strconv.Itoa(o.HighFrequency),
			strconv.Itoa(o.DailySpike),
		})
	}
	writer.Write([]string{})

	writer.Write([]string{"Top Players by Wager"})
	writer.Write([]string{"Player", "Occupation", "Total Wager", "Total Hold", "Sessions", "Risk Level"})
	for _, p := range rpt.TopPlayers {
		writer.Write([]string{
			p.PlayerID,
			p.Occupation,
			p.TotalWager.String(),
			p.TotalHold.String(),
			strconv.Itoa(p.Sessions),
			p.RiskLevel.Label(),
		})
	}
	writer.Write([]string{})

	writer.Write([]string{"KYC Aging"})
	writer.Write([]string{"Verified", strconv.Itoa(rpt.KYCAging.Verified)})
	writer.Write([]string{
		fmt.Sprintf("Unverified >= %d days", rpt.KYCAging.StaleDays),
		strconv.Itoa(rpt.KYCAging.StaleUnverified),
	})
	writer.Write([]string{})

	writer.Write([]string{"Duplicate Candidates"})
	if rpt.Duplicates.Status != models.ScanStatusOK {
		writer.Write([]string{"Skipped", rpt.Duplicates.Reason})
	} else {
		writer.Write([]string{"Player A", "Player B", "Score"})
		for _, pair := range rpt.Duplicates.Pairs {
			writer.Write([]string{
				pair.PlayerA,
				pair.PlayerB,
				strconv.FormatFloat(pair.Score, 'f', 1, 64),
			})
		}
	}

	writer.Flush()
	return writer.Error()
}
