package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/devices/cache"
	"dochadzka_backend/internals/helpers/dbtime"

	"github.com/spf13/pflag"
)

var ErrUsage = errors.New("usage")

// ErrNotAuthorized: no cached device authorization, or the server refused it.
var ErrNotAuthorized = errors.New(constants.MsgDeviceNotAuthorized)

const DefaultServerURL = "http://localhost:3000"

// App holds the process-level dependencies of the kiosk CLI.
type App struct {
	Out io.Writer
	Now func() time.Time
}

func Execute(args []string) error {
	app := &App{Out: os.Stdout, Now: time.Now}
	return app.Run(context.Background(), args)
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, `kiosk <command> [flags]

commands:
  authorize <device-code>            overí kód zariadenia a uloží ho na dnes
  arrive  --badge X --position P     Príchod
  depart  --badge X --position P     Odchod
  status                             stav autorizácie a čas kiosku
  positions                          zoznam pozícií
  forget                             zrušiť autorizáciu tohto zariadenia

common flags:
  --server URL       (KIOSK_SERVER_URL, default http://localhost:3000)
  --cache-file PATH  (default ~/.dochadzka_device)
  --tz ZONE          (ATTENDANCE_TIMEZONE, default Europe/Bratislava)
  --timeout DUR      (default 10s)`)
}

func usageError() error {
	return fmt.Errorf("%w: kiosk <authorize|arrive|depart|status|positions|forget> [...]", ErrUsage)
}

func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError()
	}
	switch args[0] {
	case "authorize":
		return app.runAuthorize(args[1:])
	case "arrive":
		return app.runSubmit(ctx, constants.ActionArrival, args[1:])
	case "depart":
		return app.runSubmit(ctx, constants.ActionDeparture, args[1:])
	case "status":
		return app.runStatus(args[1:])
	case "positions":
		return app.runPositions(args[1:])
	case "forget":
		return app.runForget(args[1:])
	case "help", "-h", "--help":
		PrintUsage(app.Out)
		return nil
	default:
		return usageError()
	}
}

type commonFlags struct {
	server    string
	cacheFile string
	zone      string
	timeout   time.Duration
	dayScoped bool
}

func addCommonFlags(fs *pflag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.server, "server", configs.GetEnv("KIOSK_SERVER_URL", DefaultServerURL), "attendance API base URL")
	fs.StringVar(&cf.cacheFile, "cache-file", "", "device authorization file (default ~/"+cache.DefaultFileName+")")
	fs.StringVar(&cf.zone, "tz", configs.GetEnv("ATTENDANCE_TIMEZONE", dbtime.DefaultTimeZone), "kiosk time zone")
	fs.DurationVar(&cf.timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.BoolVar(&cf.dayScoped, "day-scoped", true, "authorization expires at local midnight")
}

func (cf *commonFlags) location() (*time.Location, error) {
	loc, err := time.LoadLocation(cf.zone)
	if err != nil {
		return nil, fmt.Errorf("--tz %q: %w", cf.zone, err)
	}
	return loc, nil
}

func (cf *commonFlags) store() (*cache.FileCache, error) {
	path := cf.cacheFile
	if path == "" {
		p, err := cache.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return cache.NewFileCache(path), nil
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return fmt.Errorf("%w: %s", ErrUsage, fs.FlagUsages())
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// authorizedClient reads today's device code from the local cache.
func (app *App) authorizedClient(cf *commonFlags) (*Client, *cache.FileCache, error) {
	loc, err := cf.location()
	if err != nil {
		return nil, nil, err
	}
	fc, err := cf.store()
	if err != nil {
		return nil, nil, err
	}
	a, ok := cache.Lookup(fc, app.Now(), loc)
	if !ok {
		return nil, fc, ErrNotAuthorized
	}
	return NewClient(cf.server, a.Code, cf.timeout), fc, nil
}

/* ===================== authorize ===================== */

func (app *App) runAuthorize(args []string) error {
	var cf commonFlags
	fs := pflag.NewFlagSet("authorize", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &cf)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: kiosk authorize <device-code>", ErrUsage)
	}
	code := strings.TrimSpace(fs.Arg(0))

	loc, err := cf.location()
	if err != nil {
		return err
	}
	fc, err := cf.store()
	if err != nil {
		return err
	}

	got, err := NewClient(cf.server, "", cf.timeout).Authorize(code)
	if err != nil {
		var ae *APIError
		if !errors.As(err, &ae) {
			return err
		}
		if ae.revokesDevice() {
			return ErrNotAuthorized
		}
		return errors.New(ae.Message)
	}

	a := cache.NewAuthorization(got.Code, app.Now(), loc, cf.dayScoped)
	if cf.dayScoped && got.Day != "" {
		a.Day = got.Day
	}
	if err := fc.Set(a); err != nil {
		return fmt.Errorf("save authorization: %w", err)
	}
	fmt.Fprintln(app.Out, constants.MsgDeviceAuthorized)
	return nil
}

/* ===================== arrive / depart ===================== */

func (app *App) runSubmit(ctx context.Context, action constants.Action, args []string) error {
	var (
		cf       commonFlags
		badge    string
		position string
		retries  int
		delay    time.Duration
	)
	fs := pflag.NewFlagSet(strings.ToLower(action.String()), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &cf)
	fs.StringVarP(&badge, "badge", "b", "", "badge (chip) code")
	fs.StringVarP(&position, "position", "p", "", "work position")
	fs.IntVar(&retries, "retries", 2, "extra attempts when the database is unreachable")
	fs.DurationVar(&delay, "retry-delay", time.Second, "pause between attempts")
	if err := parse(fs, args); err != nil {
		return err
	}
	if badge == "" && fs.NArg() > 0 {
		badge = fs.Arg(0)
	}
	if badge == "" || position == "" {
		return fmt.Errorf("%w: kiosk %s --badge <code> --position <name>", ErrUsage, fs.Name())
	}

	client, fc, err := app.authorizedClient(&cf)
	if err != nil {
		return err
	}

	r, err := client.Submit(ctx, Submission{BadgeCode: badge, Position: position, Action: action}, retries, delay)
	if err != nil {
		return app.submitError(err, fc)
	}

	mark := "✅"
	if !r.Event.Valid {
		mark = "⚠️"
	}
	fmt.Fprintf(app.Out, "%s %s\n", r.Message, mark)
	return nil
}

func (app *App) submitError(err error, fc cache.LocalCache) error {
	var ae *APIError
	if !errors.As(err, &ae) {
		return fmt.Errorf("%s (%w)", constants.MsgNotRecorded, err)
	}
	switch {
	case ae.revokesDevice():
		// allow-list changed; make the operator re-authorize
		_ = fc.Clear()
		return ErrNotAuthorized
	case ae.Code == constants.CodeRemoteUnavailable:
		return fmt.Errorf("%s (%w)", constants.MsgNotRecorded, err)
	default:
		return errors.New(ae.Message)
	}
}

/* ===================== status / positions / forget ===================== */

func (app *App) runStatus(args []string) error {
	var cf commonFlags
	fs := pflag.NewFlagSet("status", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &cf)
	if err := parse(fs, args); err != nil {
		return err
	}

	client, _, err := app.authorizedClient(&cf)
	if errors.Is(err, ErrNotAuthorized) {
		fmt.Fprintln(app.Out, "zariadenie: neautorizované")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "zariadenie: %s\n", client.DeviceCode)

	clk, err := client.Clock()
	if err != nil {
		return err
	}
	open := "-"
	if len(clk.OpenActions) > 0 {
		open = strings.Join(clk.OpenActions, ", ")
	}
	fmt.Fprintf(app.Out, "čas: %s (%s)\notvorené: %s\n", clk.Clock, clk.TimeZone, open)
	return nil
}

func (app *App) runPositions(args []string) error {
	var cf commonFlags
	fs := pflag.NewFlagSet("positions", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &cf)
	if err := parse(fs, args); err != nil {
		return err
	}

	client, _, err := app.authorizedClient(&cf)
	if err != nil {
		return err
	}
	list, err := client.Positions()
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Fprintln(app.Out, p)
	}
	return nil
}

func (app *App) runForget(args []string) error {
	var cf commonFlags
	fs := pflag.NewFlagSet("forget", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &cf)
	if err := parse(fs, args); err != nil {
		return err
	}
	fc, err := cf.store()
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, constants.MsgDeviceForgotten)
	return nil
}
