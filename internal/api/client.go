// Package api is the client for the wellness backend REST API. The
// backend owns all business logic (search, shopping lists, goal
// computation); this client only moves the meal-planning state across
// the wire.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/config"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/nutrition"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
)

var (
	ErrSessionExpired = errors.New("session token expired")
	ErrUnauthorized   = errors.New("unauthorized")
)

// StatusError is returned for non-2xx responses so callers can map the
// failure per the error taxonomy (transient vs. terminal).
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Status, e.Body)
}

// Transient reports whether the error is worth retrying: network
// failures and 5xx responses.
func Transient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500
	}
	return !errors.Is(err, ErrSessionExpired) && !errors.Is(err, ErrUnauthorized) && err != nil
}

// Client talks to the backend API with a client-side token bucket so a
// burst of UI actions cannot hammer the server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter

	// retryBase is the fibonacci backoff seed for non-critical reads;
	// shortened in tests.
	retryBase time.Duration
}

func NewClient(cfg *config.Config) *Client {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = rps
	}
	return &Client{
		baseURL:   cfg.APIBaseURL,
		token:     cfg.APIToken,
		http:      &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		retryBase: 250 * time.Millisecond,
	}
}

// GetMealPlan loads the saved plan for the week, as date -> flat meal
// list. An empty or absent plan comes back as an empty map.
func (c *Client) GetMealPlan(ctx context.Context, weekStart time.Time) (map[string][]PlanMeal, error) {
	q := url.Values{"week_start": {weekStart.Format(plan.DateFormat)}}
	var env mealPlanEnvelope
	if err := c.do(ctx, http.MethodGet, "/v1/meal-plan", q, nil, &env, nil); err != nil {
		return nil, fmt.Errorf("load meal plan: %w", err)
	}
	if env.MealPlan.Meals == nil {
		return map[string][]PlanMeal{}, nil
	}
	return env.MealPlan.Meals, nil
}

// SaveMealPlan writes the whole week back. Each save carries a fresh
// X-Request-ID so the backend can deduplicate accidental resubmits.
func (c *Client) SaveMealPlan(ctx context.Context, weekStart time.Time, meals map[string][]PlanMeal) error {
	body := saveMealPlanRequest{
		WeekStart: weekStart.Format(plan.DateFormat),
		Meals:     meals,
	}
	headers := map[string]string{"X-Request-ID": uuid.New().String()}
	if err := c.do(ctx, http.MethodPost, "/v1/meal-plan", nil, body, nil, headers); err != nil {
		return fmt.Errorf("save meal plan: %w", err)
	}
	return nil
}

// GetRecipe fetches one catalog record. Non-critical read: transient
// failures are retried with fibonacci backoff before giving up.
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipes.Recipe, error) {
	var rec recipes.Recipe
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/v1/recipe/"+url.PathEscape(id), nil, nil, &rec, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

// SearchRecipes queries the catalog. Critical read per the taxonomy:
// the caller surfaces failures, so no silent retry loop here.
func (c *Client) SearchRecipes(ctx context.Context, query string, limit int) ([]recipes.Recipe, error) {
	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var env recipesEnvelope
	if err := c.do(ctx, http.MethodGet, "/v1/recipes/search", q, nil, &env, nil); err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return env.Recipes, nil
}

// MyRecipes lists the user's own recipes. Non-critical read.
func (c *Client) MyRecipes(ctx context.Context) ([]recipes.Recipe, error) {
	var env recipesEnvelope
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/v1/my-recipes", nil, nil, &env, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("list my recipes: %w", err)
	}
	return env.Recipes, nil
}

// FavoriteRecipes lists the user's favorites. Non-critical read.
func (c *Client) FavoriteRecipes(ctx context.Context) ([]recipes.Recipe, error) {
	var env recipesEnvelope
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/v1/favorite-recipes", nil, nil, &env, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("list favorite recipes: %w", err)
	}
	return env.Recipes, nil
}

// NutritionGoals fetches the daily targets. Non-critical read; all
// fields optional.
func (c *Client) NutritionGoals(ctx context.Context) (nutrition.Goals, error) {
	var goals nutrition.Goals
	err := c.withRetry(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/v1/nutrition-goals", nil, nil, &goals, nil)
	})
	if err != nil {
		return nutrition.Goals{}, fmt.Errorf("load nutrition goals: %w", err)
	}
	return goals, nil
}

// GenerateShoppingList asks the backend to derive a shopping list from
// the saved plan. The derivation itself happens server-side.
func (c *Client) GenerateShoppingList(ctx context.Context, weekStart time.Time) error {
	q := url.Values{"week_start": {weekStart.Format(plan.DateFormat)}}
	if err := c.do(ctx, http.MethodPost, "/v1/shopping-list/generate", q, nil, nil, nil); err != nil {
		return fmt.Errorf("generate shopping list: %w", err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if Transient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, headers map[string]string) error {
	if sessionExpired(c.token, time.Now()) {
		return ErrSessionExpired
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// MealsFromWeek flattens a week plan into the wire shape, keeping slot
// and list order.
func MealsFromWeek(w *plan.WeekPlan) map[string][]PlanMeal {
	meals := make(map[string][]PlanMeal, plan.DaysPerWeek)
	for _, date := range w.Dates() {
		day := w.Days[date]
		var list []PlanMeal
		for _, slot := range plan.SlotOrder {
			for _, e := range day[slot] {
				list = append(list, PlanMeal{
					MealType: string(slot),
					RecipeID: e.RecipeID,
					Servings: e.Servings,
				})
			}
		}
		if len(list) > 0 {
			meals[date] = list
		}
	}
	return meals
}

// WeekFromMeals merges the wire shape into a fresh skeleton for the
// given week. Unknown slots and out-of-window dates are skipped with a
// warning rather than failing the whole load.
func WeekFromMeals(weekStart time.Time, meals map[string][]PlanMeal, logf func(format string, v ...any)) *plan.WeekPlan {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	w := plan.NewWeek(weekStart)
	for _, date := range w.Dates() {
		for _, m := range meals[date] {
			next, err := w.WithEntry(date, plan.Slot(m.MealType), plan.Entry{
				RecipeID: m.RecipeID,
				Servings: m.Servings,
			})
			if err != nil {
				logf("WARN api: skipping meal on %s: %v", date, err)
				continue
			}
			w = next
		}
	}
	for date := range meals {
		if !w.Contains(date) {
			logf("WARN api: server returned date %s outside week of %s", date, weekStart.Format(plan.DateFormat))
		}
	}
	return w
}
