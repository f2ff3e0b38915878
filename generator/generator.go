package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shoplens/catalog"
	"shoplens/util"
)

// Behavioral model constants. Conversion multipliers compose multiplicatively
// and independently.
const (
	customersPerVisit      = 0.6
	returningPoolShare     = 0.3
	returningVisitRate     = 0.3
	freshReturningFlagRate = 0.2

	meanPagesViewed   = 3.0
	meanTimeOnSite    = 180.0
	baseConversion    = 0.03
	returningLift     = 2.5
	desktopLift       = 1.3
	emailDirectLift   = 1.5
	addToCartRate     = 0.15
	cartAbandonedRate = 0.70

	daysPerMonth = 30
)

var (
	devices       = []string{"Desktop", "Mobile", "Tablet"}
	deviceWeights = []float64{0.45, 0.40, 0.15}

	channels       = []string{"Organic Search", "Paid Search", "Social Media", "Direct", "Email", "Referral"}
	channelWeights = []float64{0.30, 0.25, 0.20, 0.15, 0.05, 0.05}

	countries      = []string{"USA", "Canada", "UK", "Germany", "France", "Australia", "Spain"}
	countryWeights = []float64{0.40, 0.15, 0.12, 0.10, 0.08, 0.08, 0.07}
)

// Generator produces synthetic sessions, events and transaction lines from a
// single injected random stream. All draws are sequential on that stream, so
// the output is bit-reproducible for a given seed, anchor and parameter set.
// The generator holds no state across GenerateDataset calls other than the
// stream position; callers wanting independent runs construct independent
// generators.
type Generator struct {
	products []catalog.Product
	rnd      *rand.Rand
	anchor   time.Time
}

// New builds a Generator over the given catalog and random stream, anchored
// at the current UTC time.
func New(products []catalog.Product, rnd *rand.Rand) *Generator {
	return NewWithAnchor(products, rnd, util.TimeNowZ())
}

// NewWithAnchor fixes the "now" reference that session dates are generated
// backwards from. Tests use a constant anchor for row-for-row reproducibility.
func NewWithAnchor(products []catalog.Product, rnd *rand.Rand, anchor time.Time) *Generator {
	return &Generator{products: products, rnd: rnd, anchor: anchor}
}

// NewSeeded is a convenience constructor owning a fresh stream for the seed.
func NewSeeded(products []catalog.Product, seed int64) *Generator {
	return New(products, rand.New(rand.NewSource(seed)))
}

// GenerateDataset produces visitsPerMonth*months sessions plus their events
// and transaction lines. Negative parameters are invalid; zero parameters
// yield empty tables.
//
// Draw order per visit, on the single stream: returning decision, customer
// pick, date (day/hour/minute), device, channel, country, pages viewed, time
// on site, conversion, add-to-cart, conditional abandonment, product views,
// cart picks, quantities, inter-event gaps. Changing this order changes the
// output for a given seed.
func (g *Generator) GenerateDataset(visitsPerMonth, months int) (*Dataset, error) {
	if visitsPerMonth < 0 {
		return nil, errors.Errorf("invalid visits_per_month %d", visitsPerMonth)
	}
	if months < 0 {
		return nil, errors.Errorf("invalid months %d", months)
	}
	if len(g.products) == 0 {
		return nil, errors.New("generator has an empty product catalog")
	}

	totalVisits := visitsPerMonth * months
	ds := &Dataset{
		Sessions:     make([]Session, 0, totalVisits),
		Events:       make([]Event, 0, totalVisits*4),
		Transactions: make([]TransactionLine, 0),
	}
	if totalVisits == 0 {
		return ds, nil
	}

	// Customer pool: not every visit is a unique customer. 30% of the pool
	// is eligible to come back as a recognized returning visitor.
	totalCustomers := util.MaxInt(1, int(float64(totalVisits)*customersPerVisit))
	customerIDs := make([]string, totalCustomers)
	for i := range customerIDs {
		customerIDs[i] = fmt.Sprintf("C%06d", i+1)
	}
	returningPool := sampleStrings(g.rnd, customerIDs, int(float64(totalCustomers)*returningPoolShare))

	totalDays := months * daysPerMonth
	startDate := g.anchor.AddDate(0, 0, -totalDays)

	sessionSeq := 1
	transactionSeq := 1
	var eventSeq int64

	for visit := 0; visit < totalVisits; visit++ {
		var customerID string
		var isReturning bool
		if g.rnd.Float64() < returningVisitRate && len(returningPool) > 0 {
			customerID = returningPool[g.rnd.Intn(len(returningPool))]
			isReturning = true
		} else {
			customerID = customerIDs[g.rnd.Intn(len(customerIDs))]
			// "Returning" is behaviorally modeled here, independent of pool
			// membership.
			isReturning = g.rnd.Float64() < freshReturningFlagRate
		}

		sessionDate := startDate.AddDate(0, 0, g.rnd.Intn(totalDays)).
			Add(time.Duration(g.rnd.Intn(24))*time.Hour + time.Duration(g.rnd.Intn(60))*time.Minute)

		device := weightedChoice(g.rnd, devices, deviceWeights)
		channel := weightedChoice(g.rnd, channels, channelWeights)
		country := weightedChoice(g.rnd, countries, countryWeights)

		pagesViewed := util.MaxInt(1, int(g.rnd.ExpFloat64()*meanPagesViewed))
		timeOnSite := util.MaxInt(10, int(g.rnd.ExpFloat64()*meanTimeOnSite))

		conversionRate := baseConversion
		if isReturning {
			conversionRate *= returningLift
		}
		if device == "Desktop" {
			conversionRate *= desktopLift
		}
		if channel == "Email" || channel == "Direct" {
			conversionRate *= emailDirectLift
		}
		converted := g.rnd.Float64() < conversionRate

		addedToCart := g.rnd.Float64() < addToCartRate
		if converted {
			// A purchase requires a cart: the funnel never reaches checkout
			// without add_to_cart, and every converted session must own a
			// transaction.
			addedToCart = true
		}
		cartAbandoned := false
		if addedToCart && !converted {
			cartAbandoned = g.rnd.Float64() < cartAbandonedRate
		}

		sessionID := fmt.Sprintf("S%08d", sessionSeq)
		sessionSeq++

		ds.Sessions = append(ds.Sessions, Session{
			SessionID:     sessionID,
			CustomerID:    customerID,
			SessionDate:   sessionDate,
			Device:        device,
			Channel:       channel,
			Country:       country,
			IsReturning:   isReturning,
			PagesViewed:   pagesViewed,
			TimeOnSite:    timeOnSite,
			AddedToCart:   addedToCart,
			CartAbandoned: cartAbandoned,
			Converted:     converted,
		})

		eventTime := sessionDate
		appendEvent := func(eventType string, product *catalog.Product) {
			eventSeq++
			ev := Event{
				EventID:   eventSeq,
				SessionID: sessionID,
				EventType: eventType,
				EventTime: eventTime,
			}
			if product != nil {
				ev.ProductID = product.ID
				ev.ProductName = product.Name
			}
			ds.Events = append(ds.Events, ev)
		}

		appendEvent(EventTypeLanding, nil)

		viewed := sampleProducts(g.rnd, g.products, util.MinInt(pagesViewed, len(g.products)))
		for i := range viewed {
			eventTime = eventTime.Add(secondsBetween(g.rnd, 10, 60))
			appendEvent(EventTypeProductView, &viewed[i])
		}

		if !addedToCart {
			continue
		}

		cartSize := 1 + g.rnd.Intn(util.MinInt(3, len(viewed)))
		cart := sampleProducts(g.rnd, viewed, cartSize)
		for i := range cart {
			eventTime = eventTime.Add(secondsBetween(g.rnd, 5, 30))
			appendEvent(EventTypeAddToCart, &cart[i])
		}

		switch {
		case converted:
			eventTime = eventTime.Add(secondsBetween(g.rnd, 10, 120))
			appendEvent(EventTypeCheckoutStart, nil)
			eventTime = eventTime.Add(secondsBetween(g.rnd, 60, 300))
			appendEvent(EventTypePurchase, nil)

			quantities := make([]int, len(cart))
			orderTotal := 0.0
			for i, p := range cart {
				quantities[i] = 1 + g.rnd.Intn(2)
				orderTotal += p.Price * float64(quantities[i])
			}

			transactionID := fmt.Sprintf("T%08d", transactionSeq)
			transactionSeq++
			for i, p := range cart {
				ds.Transactions = append(ds.Transactions, TransactionLine{
					TransactionID:   transactionID,
					SessionID:       sessionID,
					CustomerID:      customerID,
					TransactionDate: eventTime,
					ProductID:       p.ID,
					ProductName:     p.Name,
					Category:        p.Category,
					Quantity:        quantities[i],
					UnitPrice:       p.Price,
					TotalAmount:     p.Price * float64(quantities[i]),
					OrderTotal:      orderTotal,
					Device:          device,
					Channel:         channel,
					Country:         country,
				})
			}

		case cartAbandoned:
			eventTime = eventTime.Add(secondsBetween(g.rnd, 30, 180))
			appendEvent(EventTypeCartAbandoned, nil)
		}
	}

	log.WithFields(log.Fields{
		"sessions":     len(ds.Sessions),
		"events":       len(ds.Events),
		"transactions": len(ds.Transactions),
		"customers":    totalCustomers,
	}).Debug("Generated synthetic dataset.")

	return ds, nil
}

// secondsBetween draws an inclusive uniform duration in [min, max] seconds.
func secondsBetween(rnd *rand.Rand, min, max int) time.Duration {
	return time.Duration(min+rnd.Intn(max-min+1)) * time.Second
}

// weightedChoice draws one value from a fixed categorical distribution whose
// weights sum to 1.
func weightedChoice(rnd *rand.Rand, values []string, weights []float64) string {
	r := rnd.Float64()
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return values[i]
		}
	}
	return values[len(values)-1]
}

// sampleProducts draws k products without replacement via a partial
// Fisher-Yates shuffle over an index copy. k is capped at len(products).
func sampleProducts(rnd *rand.Rand, products []catalog.Product, k int) []catalog.Product {
	if k > len(products) {
		k = len(products)
	}
	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	picked := make([]catalog.Product, 0, k)
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked = append(picked, products[idx[i]])
	}
	return picked
}

func sampleStrings(rnd *rand.Rand, values []string, k int) []string {
	if k > len(values) {
		k = len(values)
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	picked := make([]string, 0, k)
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked = append(picked, values[idx[i]])
	}
	return picked
}
