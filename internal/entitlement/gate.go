// Package entitlement holds the single Pro flag that gates premium features.
package entitlement

import (
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/logger"
	"github.com/julianstephens/moodlit/internal/storage"
)

// Feature ids.
const (
	FeatureUnlimitedHistory  = "unlimited-history"
	FeatureViewAllEntries    = "view-all-entries"
	FeatureAdvancedAnalytics = "advanced-analytics"
	FeatureCustomReminders   = "custom-reminders"
	FeatureMoodInsights      = "mood-insights"
	FeatureMultiMood         = "multi-mood"
)

// Feature describes one capability unlocked by Pro.
type Feature struct {
	ID          string
	Emoji       string
	Title       string
	Description string
}

// Features is the catalog shown to users. Every entry is unlocked by the
// same flag.
var Features = []Feature{
	{FeatureUnlimitedHistory, "📊", "Unlimited History", "Access your complete mood history with the full year view"},
	{FeatureViewAllEntries, "📖", "View All Entries", "Browse every mood entry you have recorded"},
	{FeatureAdvancedAnalytics, "🧠", "Advanced Analytics", "Longest streaks, best and worst days, and mood variability"},
	{FeatureCustomReminders, "⏰", "Multiple Reminders", "Set several reminder times throughout the day"},
	{FeatureMoodInsights, "✨", "Mood Insights", "Personalized observations based on your patterns"},
	{FeatureMultiMood, "🎭", "Multiple Daily Moods", "Log your mood throughout the day to see how it changes"},
}

// Listener is called with the new value after every change.
type Listener func(isPro bool)

// Gate caches the persisted Pro flag and fans changes out to subscribers.
// Construct one per process and share it.
type Gate struct {
	provider storage.Provider

	mu      sync.RWMutex
	isPro   bool
	loaded  bool
	loadErr error
	once    sync.Once

	// setMu orders Set calls so subscribers see changes in commit order.
	setMu sync.Mutex

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func New(provider storage.Provider) *Gate {
	return &Gate{
		provider:  provider,
		listeners: make(map[int]Listener),
	}
}

// Load reads the flag from storage. Only the first call does any work;
// later calls return the first result. A read failure leaves the flag false.
func (g *Gate) Load() error {
	g.once.Do(func() {
		var v bool
		found, err := storage.GetJSON(g.provider, constants.KeyProStatus, &v)
		if err != nil {
			logger.Warn("Failed to load pro status", "error", err)
			g.loadErr = fmt.Errorf("failed to load pro status: %w", err)
			v = false
		}

		g.mu.Lock()
		g.isPro = v
		g.loaded = true
		g.mu.Unlock()

		if found && err == nil {
			g.notify(v)
		}
	})
	return g.loadErr
}

// Get returns the cached flag. loading is true until Load has finished,
// which distinguishes "not known yet" from "false".
func (g *Gate) Get() (isPro bool, loading bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isPro, !g.loaded
}

// IsPro returns the cached flag, false before Load.
func (g *Gate) IsPro() bool {
	v, _ := g.Get()
	return v
}

// Allows reports whether feature is reachable. Features outside the
// catalog are never gated.
func (g *Gate) Allows(feature string) bool {
	for _, f := range Features {
		if f.ID == feature {
			return g.IsPro()
		}
	}
	return true
}

// Set persists v and then notifies every subscriber. On a write failure the
// cached value and subscribers are left untouched.
func (g *Gate) Set(v bool) error {
	g.setMu.Lock()
	defer g.setMu.Unlock()
	return g.set(v)
}

func (g *Gate) set(v bool) error {
	if err := storage.SetJSON(g.provider, constants.KeyProStatus, v); err != nil {
		return fmt.Errorf("failed to save pro status: %w", err)
	}

	g.mu.Lock()
	g.isPro = v
	g.loaded = true
	g.mu.Unlock()

	g.notify(v)
	return nil
}

// Toggle flips the flag and returns the new value.
func (g *Gate) Toggle() (bool, error) {
	g.setMu.Lock()
	defer g.setMu.Unlock()

	next := !g.IsPro()
	if err := g.set(next); err != nil {
		return !next, err
	}
	return next, nil
}

// Subscribe registers fn and returns a function that removes it.
func (g *Gate) Subscribe(fn Listener) func() {
	g.lmu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.lmu.Unlock()

	return func() {
		g.lmu.Lock()
		delete(g.listeners, id)
		g.lmu.Unlock()
	}
}

func (g *Gate) notify(v bool) {
	g.lmu.Lock()
	ids := make([]int, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, g.listeners[id])
	}
	g.lmu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
