package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"smart-home-agent/internal/domain"
)

// Result records one control write that reached the hub.
type Result struct {
	Accessory      domain.Accessory
	Characteristic string
	Value          int
}

// Agent resolves actions against the accessory catalog and executes them
// one at a time on the hub. Console results go to out.
type Agent struct {
	hub      Hub
	catalog  *domain.Catalog
	notifier Notifier
	out      io.Writer
	logger   *slog.Logger
}

// NewAgent fetches the accessory catalog once; it is not refreshed afterwards.
func NewAgent(ctx context.Context, hub Hub, notifier Notifier, out io.Writer, logger *slog.Logger) (*Agent, error) {
	logger.Info("discovering devices")
	accessories, err := hub.Accessories(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("found devices", "count", len(accessories))

	if notifier == nil {
		notifier = &NoopNotifier{}
	}

	return &Agent{
		hub:      hub,
		catalog:  domain.NewCatalog(accessories),
		notifier: notifier,
		out:      out,
		logger:   logger,
	}, nil
}

func (a *Agent) Catalog() *domain.Catalog {
	return a.catalog
}

// Execute resolves the action's device and issues exactly one control call.
func (a *Agent) Execute(ctx context.Context, action domain.Action) (Result, error) {
	if action == nil {
		return Result{}, fmt.Errorf("%w: empty action", domain.ErrUnknownAction)
	}

	accessory, err := a.catalog.Find(action.Target())
	if err != nil {
		a.reportCandidates(err)
		return Result{}, err
	}

	switch action.(type) {
	case domain.TurnOn, domain.TurnOff, domain.SetBrightness:
	default:
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action.Kind())
	}

	characteristic, value := action.Characteristic()
	a.logger.Debug("controlling device",
		"device", accessory.Name,
		"id", accessory.ID,
		"characteristic", characteristic,
		"value", value,
	)

	if err := a.hub.SetCharacteristic(ctx, accessory.ID, characteristic, value); err != nil {
		return Result{}, fmt.Errorf("controlling %s: %w", accessory.Name, err)
	}

	fmt.Fprintf(a.out, "✅ %s: %s = %d\n", accessory.Name, characteristic, value)

	return Result{Accessory: accessory, Characteristic: characteristic, Value: value}, nil
}

// ExecuteAll runs actions in order and stops at the first failure. Actions
// already executed are not rolled back.
func (a *Agent) ExecuteAll(ctx context.Context, actions []domain.Action) ([]Result, error) {
	results := make([]Result, 0, len(actions))
	for i, action := range actions {
		if len(actions) > 1 {
			fmt.Fprintf(a.out, "[%d/%d] %v\n", i+1, len(actions), action)
		}
		r, err := a.Execute(ctx, action)
		if err != nil {
			return results, fmt.Errorf("action %d/%d: %w", i+1, len(actions), err)
		}
		results = append(results, r)
	}

	if len(results) > 0 {
		if err := a.notifier.Notify(ctx, Summary(results)); err != nil {
			a.logger.Error("notifying result", "error", err)
		}
	}

	return results, nil
}

// Order asks the planner to translate order into actions and executes them.
// The whole plan is type-checked before the first control call.
func (a *Agent) Order(ctx context.Context, planner Planner, order string) ([]Result, error) {
	planned, err := planner.Plan(ctx, order, a.catalog.ControllableNames())
	if err != nil {
		return nil, fmt.Errorf("planning order: %w", err)
	}

	actions, err := ToActions(planned)
	if err != nil {
		return nil, err
	}

	if len(actions) == 0 {
		fmt.Fprintln(a.out, "⚠️  No actions to execute")
		return nil, nil
	}

	fmt.Fprintf(a.out, "🎯 Executing %d action(s)...\n\n", len(actions))
	return a.ExecuteAll(ctx, actions)
}

// Kitchen switches every kitchen device on or off. state is on for
// "on", "ein", "1" or "true", off for anything else.
func (a *Agent) Kitchen(ctx context.Context, state string, devices []string) ([]Result, error) {
	return a.ExecuteAll(ctx, KitchenActions(state, devices))
}

func KitchenActions(state string, devices []string) []domain.Action {
	on := false
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "on", "ein", "1", "true":
		on = true
	}

	actions := make([]domain.Action, 0, len(devices))
	for _, d := range devices {
		if on {
			actions = append(actions, domain.TurnOn{Device: d})
		} else {
			actions = append(actions, domain.TurnOff{Device: d})
		}
	}
	return actions
}

// List prints the controllable accessories with their cached state.
func (a *Agent) List(w io.Writer) {
	fmt.Fprintln(w, "🏠 Available Devices:")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, d := range a.catalog.Controllable() {
		kind := d.DisplayType
		if kind == "" {
			kind = "Unknown"
		}
		fmt.Fprintf(tw, "  • %s\t%s\t%s\n", d.Name, kind, status(d))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func status(d domain.Accessory) string {
	var parts []string
	if power, ok := d.Power(); ok {
		parts = append(parts, power.String())
	}
	if bri, ok := d.Brightness(); ok {
		parts = append(parts, bri.String())
	}
	return strings.Join(parts, " ")
}

func (a *Agent) reportCandidates(err error) {
	var nf *domain.DeviceNotFoundError
	if !errors.As(err, &nf) || !nf.Ambiguous() {
		return
	}
	fmt.Fprintf(a.out, "⚠️  Multiple devices match '%s':\n", nf.Query)
	for _, name := range nf.Candidates {
		fmt.Fprintf(a.out, "  • %s\n", name)
	}
}
