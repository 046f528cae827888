// Package cli разбирает подкоманды записной книжки и возвращает код выхода
// (0 - успех, 1 - ошибка, 2 - неверное использование).
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"myNotebook/internal/app"
	"myNotebook/internal/backup"
	"myNotebook/internal/config"
	"myNotebook/internal/controller"
	"myNotebook/internal/logger"
	"myNotebook/internal/notify"
	"myNotebook/internal/service"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Options struct {
	ConfigPath string
	// LogOutput переопределяет, куда пишут журнал короткие команды и интерфейс.
	// Пусто - файл notebook.log в каталоге данных.
	LogOutput string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Location  *time.Location
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

type command struct {
	run func(ctx context.Context, e *env, args []string) int
	// долгоживущие команды пишут журнал в stderr
	longLived bool
}

var commands = map[string]command{
	"tui":    {run: doTUI},
	"add":    {run: doAdd},
	"ls":     {run: doList},
	"show":   {run: doShow},
	"edit":   {run: doEdit},
	"done":   {run: doDone},
	"rm":     {run: doRemove},
	"export": {run: doExport},
	"import": {run: doImport},
	"notify": {run: doNotify},
	"serve":  {run: doServe, longLived: true},
	"daemon": {run: doDaemon, longLived: true},
}

// env - то, что нужно подкоманде: приложение, контроллер и потоки ввода-вывода
type env struct {
	app       *app.App
	svc       *service.NotebookService
	ctrl      *controller.Controller
	opt       Options
	stdin     *bufio.Reader
	assumeYes bool
}

// Run выполняет подкоманду. Без аргументов запускается терминальный интерфейс.
func Run(ctx context.Context, args []string, opt Options) int {
	opt = opt.withDefaults()

	name, rest := "tui", []string{}
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	switch name {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	}

	cmd, found := commands[name]
	if !found {
		fail(opt.Stderr, "неизвестная команда: "+name)
		fmt.Fprintln(opt.Stderr)
		PrintHelp(opt.Stderr)
		return 2
	}

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		fail(opt.Stderr, "конфигурация: "+err.Error())
		return 1
	}

	logOutput := opt.LogOutput
	if logOutput == "" && !cmd.longLived && cfg.Logging.Output == "" {
		if err := os.MkdirAll(config.DataDir(), 0o700); err == nil {
			logOutput = filepath.Join(config.DataDir(), "notebook.log")
		}
	}

	a := app.New(cfg, opt.ConfigPath)
	if err := a.Init(ctx, logOutput); err != nil {
		fail(opt.Stderr, err.Error())
		return 1
	}
	defer a.Shutdown()

	e := &env{
		app:   a,
		svc:   a.Service(),
		opt:   opt,
		stdin: bufio.NewReader(opt.Stdin),
	}
	e.ctrl = controller.New(e.svc, e.confirm, opt.Location)

	logger.Debug("CLI: Запуск команды", zap.String("command", name))
	return cmd.run(ctx, e, rest)
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `notebook - особиста записна книжка: плани, нотатки, нагадування

Usage:
  notebook [-config path] <subcommand> [args]

Subcommands:
  tui                                   Terminal UI (default)
  add [-type plans|notes] [-remind T] <title...> [-- body...]
  ls [-tab plans|notes|done] [-q text]  List items of a tab
  show <id>                             Show one item
  edit <id> [-title s] [-body s] [-remind T]   Edit; -remind "" clears the reminder
  done <id>                             Mark as done, cancel the reminder
  rm [-y] <id>                          Delete after confirmation
  export [file]                         Write %s
  import [-check] <file>                Replace all items from a backup
  notify                                Ask for notification permission
  serve                                 Local HTTP API + reminders
  daemon                                Reminders only, until interrupted

T is local time in the form %s. Ids may be shortened to a unique prefix of %d+ characters.
`, backup.FileName, controller.FormLayout, service.MinIDPrefix)
}

// confirm спрашивает подтверждение удаления в stdin
func (e *env) confirm(title string) bool {
	if e.assumeYes {
		return true
	}
	fmt.Fprintf(e.opt.Stdout, "Видалити %q? [y/N] ", title)
	answer, err := e.stdin.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes" || answer == "т" || answer == "так"
}

// savePermission записывает решение по уведомлениям в файл конфигурации,
// если оно изменилось. default не сохраняется.
func (e *env) savePermission(p notify.Permission) error {
	cfg := e.app.Config()
	if p == notify.PermissionDefault || string(p) == cfg.Notifications.Permission {
		return nil
	}

	cfg.Notifications.Permission = string(p)
	path := e.opt.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	logger.Info("CLI: Решение по уведомлениям сохранено", zap.String("permission", string(p)), zap.String("path", path))
	return nil
}

// failErr печатает ошибку; ошибки ввода дают код 2
func (e *env) failErr(err error) int {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		fail(e.opt.Stderr, businessErr.Message)
		if businessErr.Err != nil {
			fmt.Fprintln(e.opt.Stderr, mutedStyle.Render(businessErr.Err.Error()))
		}
		if businessErr.Code == service.CodeValidation {
			return 2
		}
		return 1
	}
	fail(e.opt.Stderr, err.Error())
	return 1
}

// resolve находит запись по id или его префиксу
func (e *env) resolve(ctx context.Context, id string) (string, int) {
	if id == "" {
		fail(e.opt.Stderr, "нужен id записи")
		return "", 2
	}
	full, err := e.svc.ResolveID(ctx, id)
	if err != nil {
		return "", e.failErr(err)
	}
	return full, 0
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.opt.Stderr)
	return fs
}

// splitID отделяет id, если он стоит перед флагами
func splitID(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

// checkRemind - непустое значение должно разбираться, иначе напоминание молча пропало бы
func (e *env) checkRemind(v string) bool {
	if strings.TrimSpace(v) == "" {
		return true
	}
	if controller.ParseRemindAt(v, e.opt.Location) == nil {
		fail(e.opt.Stderr, fmt.Sprintf("неверное время %q, нужен формат %s", v, controller.FormLayout))
		return false
	}
	return true
}
