package service

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/pkg/export"
)

const (
	groupNoEntity   = "No Entity"
	groupUnassigned = "Unassigned"
	groupNoSLA      = "No SLA"
	groupOther      = "Other"
)

// GroupRows partitions rows by dimension, keeping buckets in order of first
// appearance. Bucket percentages sum to exactly 100 when rows is non-empty.
func GroupRows(rows []models.TicketRow, dimension models.GroupDimension, loc *time.Location) []models.GroupBucket {
	if len(rows) == 0 {
		return []models.GroupBucket{}
	}
	resolve := groupResolver(dimension, loc)

	index := make(map[string]int)
	buckets := make([]models.GroupBucket, 0)
	for _, row := range rows {
		key := resolve(row)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, models.GroupBucket{Key: key})
		}
		buckets[i].Rows = append(buckets[i].Rows, row)
		buckets[i].Count++
	}

	counts := make([]int, len(buckets))
	for i := range buckets {
		counts[i] = buckets[i].Count
	}
	for i, pct := range apportionPercentages(counts, len(rows)) {
		buckets[i].Percentage = pct
	}
	return buckets
}

// Percentage is count/total*100 rounded to one decimal, 0 when total is 0.
// Group buckets start from this value before the drift correction.
func Percentage(count, total int) float64 {
	return models.Rate(count, total)
}

func groupResolver(dimension models.GroupDimension, loc *time.Location) func(models.TicketRow) string {
	if loc == nil {
		loc = time.UTC
	}
	switch dimension {
	case models.GroupByStatus:
		return func(r models.TicketRow) string { return export.Humanize(r.Status) }
	case models.GroupByPriority:
		return func(r models.TicketRow) string { return export.Humanize(r.Priority) }
	case models.GroupByEntity:
		return func(r models.TicketRow) string { return stringOr(r.EntityName, groupNoEntity) }
	case models.GroupByAgent:
		return func(r models.TicketRow) string { return stringOr(r.AgentName, groupUnassigned) }
	case models.GroupByDate:
		return func(r models.TicketRow) string { return r.CreatedAt.In(loc).Format("2006-01-02") }
	case models.GroupBySLAStatus:
		return func(r models.TicketRow) string { return export.Humanize(stringOr(r.SLAStatus, groupNoSLA)) }
	default:
		return func(models.TicketRow) string { return groupOther }
	}
}

// apportionPercentages starts every bucket at its rounded Percentage and moves
// the rounding drift, one tenth at a time, onto the buckets whose rounding was
// furthest off. The result sums to exactly 100.0. Ties favour earlier buckets
// when adding and later buckets when taking away.
func apportionPercentages(counts []int, total int) []float64 {
	result := make([]float64, len(counts))
	if total <= 0 {
		return result
	}

	const tenths = 1000
	shares := make([]int, len(counts))
	residuals := make([]float64, len(counts))
	assigned := 0
	for i, count := range counts {
		shares[i] = int(math.Round(Percentage(count, total) * 10))
		residuals[i] = float64(count*tenths)/float64(total) - float64(shares[i])
		assigned += shares[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	drift := tenths - assigned
	step := 1
	if drift < 0 {
		drift, step = -drift, -1
		for l, r := 0, len(order)-1; l < r; l, r = l+1, r-1 {
			order[l], order[r] = order[r], order[l]
		}
		sort.SliceStable(order, func(a, b int) bool { return residuals[order[a]] < residuals[order[b]] })
	} else {
		sort.SliceStable(order, func(a, b int) bool { return residuals[order[a]] > residuals[order[b]] })
	}
	for k := 0; k < drift && k < len(order); k++ {
		shares[order[k]] += step
	}

	for i, share := range shares {
		result[i] = float64(share) / 10
	}
	return result
}
