package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/api"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/blob"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/config"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/export"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/filewatch"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/nutrition"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/plan"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/recipes"
	"github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/suggest"
)

const usageText = `usage: planner [command ...]

With no command, planner starts an interactive session.

  show                                  print the week grid with totals
  week <yyyy-MM-dd>                     navigate to another week (unsaved edits are discarded)
  add <date> <slot> <recipe-id> <servings>
  remove <date> <slot> <index>
  move <date> <slot> <index> <date> <slot> [index]
  select <date> ...                     add days to the selection
  unselect <date> ...                   remove days from the selection
  clear                                 empty every selected day
  copy <date>                           copy a day into the selected days
  fill <date>                           fill the whole week from a template day
  export <json|csv|pdf> [path]          write an export file
  archive <json|csv|pdf>                export and push to the configured blob store
  import <path>                         replace the plan from an exported JSON file
  save                                  write the plan back to the backend
  search <query>                        search the recipe catalog
  suggest [add <n>]                     show suggestions / add one to today's dinner
  shopping-list                         ask the backend to derive a shopping list
  watch                                 auto-import plan files dropped into WATCH_DIR
  help, quit`

type app struct {
	cfg      *config.Config
	client   *api.Client
	store    *plan.Store
	cache    *recipes.Cache
	resolver *recipes.Resolver

	selection   plan.Selection
	goals       nutrition.Goals
	suggestions []recipes.Recipe
	dirty       bool
}

func newApp(cfg *config.Config) *app {
	client := api.NewClient(cfg)
	cache := recipes.NewCache()
	return &app{
		cfg:       cfg,
		client:    client,
		store:     plan.NewStore(plan.WeekStartOf(time.Now())),
		cache:     cache,
		resolver:  recipes.NewResolver(cache, client),
		selection: plan.NewSelection(),
	}
}

func main() {
	cfg := config.Load()
	a := newApp(cfg)
	ctx := context.Background()

	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Println(usageText)
		return
	}

	a.startSession(ctx)

	if len(args) > 0 {
		if err := a.dispatch(ctx, args); err != nil {
			log.Fatalf("ERROR %s: %v", args[0], err)
		}
		return
	}

	a.repl(ctx)
}

// startSession performs the once-per-session loads: the current week
// (critical), then goals and suggestions (best-effort).
func (a *app) startSession(ctx context.Context) {
	if err := a.loadWeek(ctx, a.store.WeekStart()); err != nil {
		fmt.Printf("ERROR loading week: %v (showing an empty week, use 'week' to retry)\n", err)
	}

	goals, err := a.client.NutritionGoals(ctx)
	if err != nil {
		log.Printf("WARN nutrition goals unavailable: %v", err)
	} else {
		a.goals = goals
	}

	a.suggestions = suggest.Load(ctx, a.client)
}

func (a *app) repl(ctx context.Context) {
	fmt.Printf("planner: week of %s (%s). Type 'help' for commands.\n",
		a.store.WeekStart().Format(plan.DateFormat), a.cfg.APIBaseURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			if a.dirty {
				fmt.Println("note: unsaved changes were discarded")
			}
			return
		}
		if err := a.dispatch(ctx, fields); err != nil {
			fmt.Printf("ERROR %s: %v\n", fields[0], err)
		}
	}
}

func (a *app) dispatch(ctx context.Context, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		fmt.Println(usageText)
		return nil
	case "show":
		return a.cmdShow()
	case "week":
		return a.cmdWeek(ctx, args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "remove":
		return a.cmdRemove(args)
	case "move":
		return a.cmdMove(args)
	case "select", "unselect":
		return a.cmdSelect(cmd, args)
	case "clear":
		return a.cmdClear()
	case "copy":
		return a.cmdCopy(args)
	case "fill":
		return a.cmdFill(args)
	case "export":
		return a.cmdExport(args)
	case "archive":
		return a.cmdArchive(ctx, args)
	case "import":
		return a.cmdImport(ctx, args)
	case "save":
		return a.cmdSave(ctx)
	case "search":
		return a.cmdSearch(ctx, args)
	case "suggest":
		return a.cmdSuggest(args)
	case "shopping-list":
		return a.cmdShoppingList(ctx)
	case "watch":
		return a.cmdWatch(ctx)
	default:
		return fmt.Errorf("unknown command (try 'help')")
	}
}

// loadWeek navigates the store and loads the backend's saved plan for
// that week. Stale responses are discarded by the store's load token.
func (a *app) loadWeek(ctx context.Context, start time.Time) error {
	tok := a.store.Navigate(start)
	a.dirty = false

	meals, err := a.client.GetMealPlan(ctx, tok.WeekStart)
	if err != nil {
		a.store.Fail(tok)
		return err
	}

	w := api.WeekFromMeals(tok.WeekStart, meals, log.Printf)
	if !a.store.Complete(tok, w) {
		log.Printf("WARN discarding stale load for week of %s", tok.WeekStart.Format(plan.DateFormat))
		return nil
	}
	a.resolver.Resolve(ctx, w.RecipeIDs())
	return nil
}

func (a *app) cmdShow() error {
	if a.store.Loading() {
		fmt.Println("loading week plan...")
		return nil
	}
	w := a.store.Week()
	look := a.cache.Lookup()

	fmt.Printf("Week of %s\n", w.Start.Format(plan.DateFormat))
	for _, date := range w.Dates() {
		day := w.Days[date]
		marker := " "
		if a.selection.Has(date) {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, date)
		for _, slot := range plan.SlotOrder {
			for i, e := range day[slot] {
				rec := look(e.RecipeID)
				totals := nutrition.ForEntry(e, rec)
				fmt.Printf("    %-10s [%d] %s x%g (%.0f kcal)\n",
					slot, i, recipes.DisplayName(e.RecipeID, rec), e.Servings, totals.Calories)
			}
		}
		dayTotals := nutrition.ForDay(day, look)
		prep := nutrition.PrepMinutes(day, look)
		fmt.Printf("    total: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fats, prep %d min\n",
			dayTotals.Calories, dayTotals.Protein, dayTotals.Carbs, dayTotals.Fats, prep)
		if !a.goals.IsZero() {
			fmt.Printf("    goals: %s\n", a.goals.Describe(dayTotals))
		}
	}
	weekTotals := nutrition.ForWeek(w, look)
	avg := nutrition.WeekAverage(w, look)
	fmt.Printf("Week: %.0f kcal total, %.0f kcal/day average\n", weekTotals.Calories, avg.Calories)
	if a.dirty {
		fmt.Println("(unsaved changes)")
	}
	return nil
}

func (a *app) cmdWeek(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: week <yyyy-MM-dd>")
	}
	start, err := time.Parse(plan.DateFormat, args[0])
	if err != nil {
		return fmt.Errorf("invalid date %q", args[0])
	}
	if a.dirty {
		fmt.Println("note: unsaved changes were discarded")
	}
	return a.loadWeek(ctx, start)
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: add <date> <slot> <recipe-id> <servings>")
	}
	servings, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid servings %q", args[3])
	}
	entry := plan.Entry{RecipeID: args[2], Servings: servings}
	err = a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		return w.WithEntry(args[0], plan.Slot(args[1]), entry)
	})
	if err != nil {
		return err
	}
	a.dirty = true
	a.resolver.Resolve(ctx, []string{entry.RecipeID})
	return nil
}

func (a *app) cmdRemove(args []string) error {
	ref, err := parseRef(args, "usage: remove <date> <slot> <index>")
	if err != nil {
		return err
	}
	if err := a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		return w.WithoutEntry(ref)
	}); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) cmdMove(args []string) error {
	if len(args) != 5 && len(args) != 6 {
		return fmt.Errorf("usage: move <date> <slot> <index> <date> <slot> [index]")
	}
	source, err := parseRef(args[:3], "invalid source position")
	if err != nil {
		return err
	}

	err = a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		rec := plan.NewReconciler()
		if err := rec.Begin(w, source); err != nil {
			return nil, err
		}
		if len(args) == 6 {
			target, err := parseRef(args[3:], "invalid target position")
			if err != nil {
				rec.Cancel()
				return nil, err
			}
			return rec.DropOnEntry(w, target)
		}
		return rec.DropOnSlot(w, args[3], plan.Slot(args[4]))
	})
	if err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) cmdSelect(cmd string, args []string) error {
	if len(args) == 0 {
		fmt.Printf("selected: %v\n", a.selection.Dates())
		return nil
	}
	for _, date := range args {
		if _, err := time.Parse(plan.DateFormat, date); err != nil {
			return fmt.Errorf("invalid date %q", date)
		}
		if cmd == "select" {
			a.selection.Add(date)
		} else {
			a.selection.Remove(date)
		}
	}
	fmt.Printf("selected: %v\n", a.selection.Dates())
	return nil
}

func (a *app) cmdClear() error {
	if len(a.selection) == 0 {
		return fmt.Errorf("no days selected")
	}
	if err := a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		return plan.ClearDays(w, a.selection), nil
	}); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) cmdCopy(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: copy <source-date>")
	}
	if len(a.selection) == 0 {
		return fmt.Errorf("no days selected")
	}
	if err := a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		return plan.CopyDay(w, args[0], a.selection)
	}); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) cmdFill(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fill <template-date>")
	}
	if err := a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
		return plan.FillWeek(w, args[0])
	}); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

func (a *app) generate(args []string) (export.Format, []byte, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("format required (json, csv or pdf)")
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return "", nil, err
	}
	g := export.NewGenerator(a.cache.Lookup())
	data, err := g.Generate(format, a.store.Week(), time.Now())
	if err != nil {
		return "", nil, err
	}
	return format, data, nil
}

func (a *app) cmdExport(args []string) error {
	format, data, err := a.generate(args)
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 1 {
		path = args[1]
	} else {
		name := fmt.Sprintf("meal-plan-%s.%s", a.store.WeekStart().Format(plan.DateFormat), format)
		path = filepath.Join(a.cfg.ExportDir, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("exported %d bytes to %s\n", len(data), path)
	return nil
}

func (a *app) cmdArchive(ctx context.Context, args []string) error {
	format, data, err := a.generate(args)
	if err != nil {
		return err
	}

	store, mode, err := blob.NewBlobStore(a.cfg.Blob, log.Default())
	if err != nil {
		return err
	}
	key := fmt.Sprintf("meal-plans/%s/%s.%s",
		a.store.WeekStart().Format(plan.DateFormat), time.Now().UTC().Format("20060102T150405Z"), format)
	n, err := store.PutObject(ctx, key, data, format.ContentType())
	if err != nil {
		return fmt.Errorf("archive export: %w", err)
	}
	fmt.Printf("archived %d bytes to %s (%s)\n", n, key, mode)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import <path>")
	}
	return a.importFile(ctx, args[0])
}

func (a *app) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	w, navigated, err := export.Import(data, a.store.WeekStart())
	if err != nil {
		return err
	}
	a.store.Replace(w)
	a.dirty = true
	a.resolver.Resolve(ctx, w.RecipeIDs())
	if navigated {
		fmt.Printf("imported plan, navigated to week of %s\n", w.Start.Format(plan.DateFormat))
	} else {
		fmt.Printf("imported plan for week of %s\n", w.Start.Format(plan.DateFormat))
	}
	return nil
}

func (a *app) cmdSave(ctx context.Context) error {
	err := a.store.Save(func(w *plan.WeekPlan) error {
		return a.client.SaveMealPlan(ctx, w.Start, api.MealsFromWeek(w))
	})
	if err != nil {
		return err
	}
	a.dirty = false
	fmt.Println("saved")
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <query>")
	}
	results, err := a.client.SearchRecipes(ctx, strings.Join(args, " "), 20)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no recipes found")
		return nil
	}
	for _, r := range results {
		a.cache.Put(&r)
		fmt.Printf("  %-24s %s\n", r.ID, r.Name)
	}
	return nil
}

func (a *app) cmdSuggest(args []string) error {
	if len(a.suggestions) == 0 {
		fmt.Println("no suggestions available")
		return nil
	}
	if len(args) == 2 && args[0] == "add" {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n >= len(a.suggestions) {
			return fmt.Errorf("invalid suggestion number %q", args[1])
		}
		r := a.suggestions[n]
		a.cache.Put(&r)
		today := time.Now().UTC().Format(plan.DateFormat)
		err = a.store.Apply(func(w *plan.WeekPlan) (*plan.WeekPlan, error) {
			if !w.Contains(today) {
				return nil, fmt.Errorf("today (%s) is outside the visible week", today)
			}
			return w.WithEntry(today, plan.SlotDinner, plan.Entry{RecipeID: r.ID, Servings: 1})
		})
		if err != nil {
			return err
		}
		a.dirty = true
		fmt.Printf("added %s to today's dinner\n", recipes.DisplayName(r.ID, &r))
		return nil
	}
	for i, r := range a.suggestions {
		fmt.Printf("  [%d] %s\n", i, recipes.DisplayName(r.ID, &r))
	}
	return nil
}

func (a *app) cmdShoppingList(ctx context.Context) error {
	if a.dirty {
		fmt.Println("note: the shopping list is derived from the last saved plan")
	}
	if err := a.client.GenerateShoppingList(ctx, a.store.WeekStart()); err != nil {
		return err
	}
	fmt.Println("shopping list generation requested")
	return nil
}

func (a *app) cmdWatch(ctx context.Context) error {
	if a.cfg.WatchDir == "" {
		return fmt.Errorf("WATCH_DIR is not configured")
	}
	watcher, err := filewatch.New(a.cfg.WatchDir, func(path string) error {
		return a.importFile(ctx, path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", a.cfg.WatchDir, err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s for plan files (ctrl-c to stop)\n", a.cfg.WatchDir)
	watcher.Watch(ctx)
	return nil
}

func parseRef(args []string, usage string) (plan.Ref, error) {
	if len(args) != 3 {
		return plan.Ref{}, errors.New(usage)
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return plan.Ref{}, fmt.Errorf("invalid index %q", args[2])
	}
	return plan.Ref{Date: args[0], Slot: plan.Slot(args[1]), Index: index}, nil
}
