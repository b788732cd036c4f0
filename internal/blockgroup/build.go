// Package blockgroup joins block-group boundaries with ACS demographics and
// derives the per-row fields of the demographics artifact.
package blockgroup

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/geo"
	"github.com/sells-group/siting-cli/internal/model"
	"github.com/sells-group/siting-cli/internal/tiger"
)

// Placeholder shares expected by the dashboard until real sources exist.
const (
	DefaultPctChristian = 25.0
	DefaultPctFirstGen  = 35.0
)

// Options holds the constant columns written to every row.
type Options struct {
	PctChristian float64
	PctFirstGen  float64
}

// DefaultOptions returns the placeholder values.
func DefaultOptions() Options {
	return Options{PctChristian: DefaultPctChristian, PctFirstGen: DefaultPctFirstGen}
}

// Summary reports what remediation touched.
type Summary struct {
	Rows      int
	Unmatched int
	Clamped   int
	Imputed   int
	K12Total  float64
}

// Build left-joins demographics onto boundaries by GEOID. Every boundary
// yields one row, in boundary order. K-12 population is then remediated:
// negatives are clamped to zero first, and only values that were null are
// imputed to zero and flagged.
func Build(boundaries []tiger.Boundary, demographics []model.Demographics, opts Options) ([]model.BlockGroup, Summary, error) {
	log := zap.L().With(zap.String("component", "blockgroup.build"))

	byGEOID := make(map[string]model.Demographics, len(demographics))
	for _, d := range demographics {
		if _, dup := byGEOID[d.GEOID]; dup {
			log.Warn("duplicate demographics GEOID, keeping first", zap.String("geoid", d.GEOID))
			continue
		}
		byGEOID[d.GEOID] = d
	}

	var sum Summary
	rows := make([]model.BlockGroup, 0, len(boundaries))
	k12 := make([]model.Float, 0, len(boundaries))

	for _, b := range boundaries {
		lat, lon, err := geo.Centroid(b.Geometry)
		if err != nil {
			return nil, sum, eris.Wrapf(err, "blockgroup: centroid of %s", b.GEOID)
		}

		d, ok := byGEOID[b.GEOID]
		if !ok {
			sum.Unmatched++
		}

		rows = append(rows, model.BlockGroup{
			GEOID:              b.GEOID,
			Income:             d.Income,
			PovertyRate:        d.PovertyRate,
			Lat:                lat,
			Lon:                lon,
			PctChristian:       opts.PctChristian,
			PctFirstGen:        opts.PctFirstGen,
			TotalPop:           d.TotalPop,
			PctBlack:           d.PctBlack,
			PctWhite:           d.PctWhite,
			HouseholdsWithU18:  d.HouseholdsWithU18,
			TractCE:            b.TractCE,
			K12EnrollmentTotal: d.EnrolledTotal,
			Geometry:           b.Geometry,
		})
		k12 = append(k12, d.K12Pop)
	}

	remediate(rows, k12, &sum)

	if sum.Unmatched > 0 {
		log.Warn("block groups without demographics", zap.Int("count", sum.Unmatched))
	}
	log.Info("demographics output",
		zap.Int("block_groups", sum.Rows),
		zap.Float64("k12_total", sum.K12Total),
	)
	return rows, sum, nil
}

// remediate fills K12Pop from the pre-remediation values. Clamping runs
// before imputation, so K12Imputed marks only rows whose value was null.
func remediate(rows []model.BlockGroup, k12 []model.Float, sum *Summary) {
	for i := range k12 {
		if k12[i].Valid && k12[i].Value < 0 {
			k12[i] = model.NewFloat(0)
			sum.Clamped++
		}
	}
	if sum.Clamped > 0 {
		zap.L().Warn("negative K-12 values reset to 0", zap.Int("count", sum.Clamped))
	}

	for i := range k12 {
		if !k12[i].Valid {
			rows[i].K12Imputed = true
			sum.Imputed++
		}
		rows[i].K12Pop = k12[i].Or(0)
		sum.K12Total += rows[i].K12Pop
	}
	if sum.Imputed > 0 {
		zap.L().Warn("imputing 0 for block groups missing K-12 enrollment", zap.Int("count", sum.Imputed))
	}
	sum.Rows = len(rows)
}
