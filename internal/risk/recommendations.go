package risk

import "github.com/Manugarciaa/sentrix-intake/internal/sites"

func recommend(level sites.RiskLevel, total, unique int) []string {
	recs := make([]string, 0, 4)

	switch level {
	case sites.RiskHigh:
		recs = append(recs,
			"Immediate intervention required: eliminate or treat detected breeding sites within 48 hours.",
			"Schedule larvicide application and follow-up inspection for the surrounding area.",
		)
	case sites.RiskMedium:
		recs = append(recs,
			"Plan corrective action within one week and monitor the site for accumulation of standing water.",
		)
	case sites.RiskLow:
		recs = append(recs,
			"Include the site in the routine inspection cycle.",
		)
	default:
		recs = append(recs,
			"No action required; re-evaluate on the next scheduled pass.",
		)
	}

	if unique >= 3 {
		recs = append(recs,
			"Multiple distinct site types detected: indicates a systemic sanitation failure, coordinate with municipal services.",
		)
	}
	if unique == 1 && total >= 3 {
		recs = append(recs,
			"Repeated instances of a single site type: localized problem, likely resolvable in one intervention.",
		)
	}

	return recs
}
