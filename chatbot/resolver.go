package chatbot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pizzabot-api/models"
	"pizzabot-api/store"

	"go.uber.org/zap"
)

const defaultMenuFetchTimeout = 10 * time.Second

// branchTable is static reference data. Order matters: the
// invalid-branch message lists the display names in table order, and
// nearest-branch ties break on the first entry encountered.
var branchTable = []struct {
	Code string
	Name string
}{
	{"b001", "Colombo"},
	{"b002", "Galle"},
	{"b003", "Kandy"},
	{"b004", "Jaffna"},
	{"b005", "Matara"},
}

// BranchDisplayName maps a branch code to its display name
func BranchDisplayName(code string) string {
	for _, b := range branchTable {
		if b.Code == code {
			return b.Name
		}
	}
	return code
}

// BranchDisplayNames returns all display names in table order
func BranchDisplayNames() []string {
	names := make([]string, len(branchTable))
	for i, b := range branchTable {
		names[i] = b.Name
	}
	return names
}

// Resolver answers branch and catalog questions for the dispatcher
type Resolver struct {
	store       store.Store
	log         *zap.Logger
	menuTimeout time.Duration
}

func NewResolver(st store.Store, log *zap.Logger) *Resolver {
	return &Resolver{store: st, log: log, menuTimeout: defaultMenuFetchTimeout}
}

// SelectBranchByName matches the input against the branch table,
// case-insensitively and exactly.
func (r *Resolver) SelectBranchByName(input string) (string, bool) {
	for _, b := range branchTable {
		if strings.EqualFold(b.Name, input) {
			return b.Code, true
		}
	}
	return "", false
}

// NearestBranch reads the branches from the store and returns the code
// of the one closest to loc. An empty code with a nil error means no
// branches exist.
func (r *Resolver) NearestBranch(ctx context.Context, loc LatLng) (string, error) {
	snap, err := r.store.Get(ctx, "branches")
	if err != nil {
		return "", err
	}
	nearest := ""
	best := math.MaxFloat64
	for _, child := range snap.Children() {
		var branch models.Branch
		if err := child.Decode(&branch); err != nil {
			r.log.Warn("skipping undecodable branch", zap.String("key", child.Key), zap.Error(err))
			continue
		}
		d := haversineMeters(loc.Latitude, loc.Longitude, branch.Latitude, branch.Longitude)
		if d < best {
			best = d
			nearest = branch.Code
		}
	}
	return nearest, nil
}

// FetchMenu reads the catalog (category-filtered server-side when
// category is non-empty) and keeps the items sold at branch. total is
// the pre-filter catalog size, which the caller needs to distinguish
// an empty catalog from a branch with no items.
func (r *Resolver) FetchMenu(ctx context.Context, branch string, category models.Category) (items []models.MenuItem, total int, err error) {
	snap, err := r.readCatalog(ctx, category)
	if err != nil {
		return nil, 0, err
	}
	for _, child := range snap.Children() {
		total++
		var item models.MenuItem
		if err := child.Decode(&item); err != nil {
			r.log.Warn("skipping undecodable menu item", zap.String("key", child.Key), zap.Error(err))
			continue
		}
		if item.SoldAt(branch) {
			items = append(items, item)
		}
	}
	return items, total, nil
}

// readCatalog performs the store read under the menu-fetch deadline.
// A read that exceeds the deadline is retried exactly once; the retry
// result is final, so a slow store produces at most one failure for
// the user. A read that fails fast is not retried.
func (r *Resolver) readCatalog(ctx context.Context, category models.Category) (*store.Snapshot, error) {
	snap, err := r.readOnce(ctx, category)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		r.log.Warn("menu fetch timed out, retrying once", zap.Duration("timeout", r.menuTimeout))
		snap, err = r.readOnce(ctx, category)
	}
	return snap, err
}

func (r *Resolver) readOnce(ctx context.Context, category models.Category) (*store.Snapshot, error) {
	rctx, cancel := context.WithTimeout(ctx, r.menuTimeout)
	defer cancel()
	if category != "" {
		return r.store.QueryByField(rctx, "menu", "category", string(category))
	}
	return r.store.Get(rctx, "menu")
}

// FormatMenuLine renders one catalog entry for the transcript. The
// layout (padded name, dotted separator, whole-currency price, then
// the description on its own line) is a stable contract for the
// transcript consumer.
func FormatMenuLine(item models.MenuItem) string {
	description := item.Description
	if description == "" {
		description = "No description"
	}
	return fmt.Sprintf("• %-20s ....... LKR %.0f\n  - %s", item.Name, item.Price, description)
}

// haversineMeters is the great-circle distance between two coordinates
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
