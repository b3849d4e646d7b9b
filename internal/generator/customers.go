package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopseed/shopseed/internal/batch"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/domain/entity"
	"github.com/shopseed/shopseed/internal/metrics"
	"github.com/shopseed/shopseed/internal/repository"
	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

const customersJobName = "customers"

// birthReference anchors age-to-birth-date conversion so regenerated
// datasets do not drift with the wall clock.
var birthReference = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// CustomersJob populates the customers table from the configured country and
// age distributions.
type CustomersJob struct {
	cfg   config.CustomersConfig
	seed  int64
	store repository.Store
	rec   metrics.Recorder
}

// NewCustomersJob creates the customers generator.
func NewCustomersJob(cfg *config.Config, store repository.Store, rec metrics.Recorder) *CustomersJob {
	return &CustomersJob{
		cfg:   cfg.Shopseed.Generator.Customers,
		seed:  cfg.Shopseed.Seed,
		store: store,
		rec:   rec,
	}
}

// Name implements Job.
func (j *CustomersJob) Name() string { return customersJobName }

// Run implements Job.
func (j *CustomersJob) Run(ctx context.Context) error {
	src := sampling.NewSource(j.seed)

	countryIDs, err := j.store.FetchCountries(ctx)
	if err != nil {
		return err
	}
	for code := range j.cfg.CountryWeights {
		if _, ok := countryIDs[code]; !ok {
			return exception.NewBatchError(customersJobName,
				fmt.Sprintf("configured country '%s' is missing from the countries table", code), nil, false, false)
		}
	}

	countryDist := sampling.FromMap(j.cfg.CountryWeights)
	ageDist := make(sampling.Distribution[int], 0, len(j.cfg.AgeGroups))
	for i, g := range j.cfg.AgeGroups {
		ageDist = append(ageDist, sampling.Entry[int]{Key: i, Weight: g.Weight})
	}

	buf := batch.NewBuffer(j.cfg.BatchSize, func(rows []entity.Customer) error {
		if _, err := j.store.BulkInsert(ctx, entity.Customer{}.TableName(), rows); err != nil {
			return err
		}
		j.rec.RecordBatchFlush(customersJobName, entity.Customer{}.TableName())
		return nil
	})

	for i := 0; i < j.cfg.Count; i++ {
		country, err := sampling.DrawKey(src, countryDist)
		if err != nil {
			return err
		}
		bracketIdx, err := sampling.DrawKey(src, ageDist)
		if err != nil {
			return err
		}
		bracket := j.cfg.AgeGroups[bracketIdx]

		age := bracket.MinAge
		if span := bracket.MaxAge - bracket.MinAge; span > 0 {
			age += src.IntN(span + 1)
		}
		birthDate := birthReference.AddDate(-age, 0, -src.IntN(365))

		cities := j.cfg.CitiesByCountry[country]
		city := ""
		if len(cities) > 0 {
			city = cities[src.IntN(len(cities))]
		}

		first := pick(src, firstNames(country))
		last := pick(src, lastNames(country))

		err = buf.Add(entity.Customer{
			FirstName: first,
			LastName:  last,
			Email:     emailFor(first, last, i+1),
			BirthDate: birthDate,
			City:      city,
			CountryID: countryIDs[country],
			CreatedAt: birthReference,
		})
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	j.rec.RecordRowsGenerated(customersJobName, entity.Customer{}.TableName(), buf.Flushed())
	logger.Infof("Inserted %d customers.", buf.Flushed())
	return nil
}

func pick(src *sampling.Source, pool []string) string {
	return pool[src.IntN(len(pool))]
}

// emailFor builds a unique, ASCII-safe address from the generated name.
func emailFor(first, last string, n int) string {
	clean := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	return fmt.Sprintf("%s.%s%d@example.com", clean(first), clean(last), n)
}
