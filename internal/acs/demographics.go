package acs

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/model"
)

// enrollmentNames are summed into the K-12 population.
var enrollmentNames = []string{EnrolledK, Enrolled1To4, Enrolled5To8, Enrolled9To12}

// Demographics derives one record per row. Null enrollment summands count
// as zero; rates against a null or zero denominator are null.
func Demographics(t *Table) []model.Demographics {
	out := make([]model.Demographics, 0, len(t.Rows))
	for _, r := range t.Rows {
		enrolled := make([]model.Float, len(enrollmentNames))
		for i, name := range enrollmentNames {
			enrolled[i] = r.Value(name)
		}

		out = append(out, model.Demographics{
			GEOID:             r.GEOID,
			Income:            r.Value(MedianIncome),
			K12Pop:            model.NewFloat(model.SumOrZero(enrolled...)),
			PovertyRate:       model.Ratio(r.Value(BelowPoverty), r.Value(PovertyUniverse), 100),
			TotalPop:          r.Value(TotalPop),
			PctBlack:          model.Ratio(r.Value(BlackAlone), r.Value(TotalPop), 100),
			PctWhite:          model.Ratio(r.Value(WhiteAlone), r.Value(TotalPop), 100),
			HouseholdsWithU18: r.Value(HouseholdsU18),
			EnrolledTotal:     r.Value(EnrolledTotal),
		})
	}
	return out
}

// FetchDemographics fetches DefaultVariables for the region and derives
// per-block-group demographics.
func (c *Client) FetchDemographics(ctx context.Context, region model.Region) ([]model.Demographics, error) {
	table, err := c.FetchVariables(ctx, region, DefaultVariables)
	if err != nil {
		return nil, err
	}

	demo := Demographics(table)

	var k12 float64
	for _, d := range demo {
		k12 += d.K12Pop.Or(0)
	}
	zap.L().Info("acs: K-12 enrollment across block groups",
		zap.String("region", region.String()),
		zap.Int("block_groups", len(demo)),
		zap.Float64("k12_total", k12),
	)
	return demo, nil
}
