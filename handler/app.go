package handler

import (
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	C "shoplens/config"
	"shoplens/catalog"
	"shoplens/demcache"
	"shoplens/pipeline"
	"shoplens/timeseries"
)

// App carries the request-scoped dependencies of every handler: the resolved
// configuration, the product catalog and the memoization cache for demo
// computations.
type App struct {
	conf     *C.Configuration
	cache    *demcache.Store
	products []catalog.Product
}

func NewApp(conf *C.Configuration) (*App, error) {
	products := catalog.Default()
	if conf.CatalogFile != "" {
		loaded, err := catalog.LoadFile(conf.CatalogFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load catalog")
		}
		products = loaded
	}

	cache, err := demcache.New(conf.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init demo cache")
	}
	return &App{conf: conf, cache: cache, products: products}, nil
}

// analysisParams are the generator knobs accepted on every demo route,
// defaulting to the configured values.
type analysisParams struct {
	Seed           int64
	VisitsPerMonth int
	Months         int
}

func (a *App) parseAnalysisParams(c *gin.Context) (analysisParams, error) {
	params := analysisParams{
		Seed:           a.conf.Seed,
		VisitsPerMonth: a.conf.VisitsPerMonth,
		Months:         a.conf.Months,
	}
	var err error
	if params.Seed, err = int64Query(c, "seed", params.Seed); err != nil {
		return params, err
	}
	if params.VisitsPerMonth, err = intQuery(c, "visits_per_month", params.VisitsPerMonth); err != nil {
		return params, err
	}
	if params.Months, err = intQuery(c, "months", params.Months); err != nil {
		return params, err
	}
	return params, nil
}

// getAnalysis returns the complete analysis for the request's parameters,
// computing it on a cache miss.
func (a *App) getAnalysis(c *gin.Context) (*pipeline.Results, error) {
	params, err := a.parseAnalysisParams(c)
	if err != nil {
		return nil, err
	}

	key := demcache.AnalysisKey(params.Seed, params.VisitsPerMonth, params.Months)
	value, err := a.cache.GetOrCompute(key, func() (interface{}, error) {
		return pipeline.RunCompleteAnalysis(pipeline.Options{
			Seed:           params.Seed,
			VisitsPerMonth: params.VisitsPerMonth,
			Months:         params.Months,
			Products:       a.products,
		})
	})
	if err != nil {
		return nil, err
	}
	return value.(*pipeline.Results), nil
}

// getSeries returns the demo daily metric series for the request's
// parameters, computing it on a cache miss.
func (a *App) getSeries(c *gin.Context) ([]timeseries.DailyMetric, error) {
	seed, err := int64Query(c, "seed", a.conf.Seed)
	if err != nil {
		return nil, err
	}
	days, err := intQuery(c, "days", a.conf.DemoDays)
	if err != nil {
		return nil, err
	}

	value, err := a.cache.GetOrCompute(demcache.SeriesKey(seed, days), func() (interface{}, error) {
		return timeseries.GenerateDemoData(rand.New(rand.NewSource(seed)), days)
	})
	if err != nil {
		return nil, err
	}
	return value.([]timeseries.DailyMetric), nil
}

func intQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("invalid %s '%s'", name, raw)
	}
	return value, nil
}

func int64Query(c *gin.Context, name string, defaultValue int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s '%s'", name, raw)
	}
	return value, nil
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
