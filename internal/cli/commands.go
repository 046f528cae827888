package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"myNotebook/internal/backup"
	"myNotebook/internal/handlers"
	"myNotebook/internal/logger"
	"myNotebook/internal/models/item"
	"myNotebook/internal/notify"
	"myNotebook/internal/service"
	"myNotebook/internal/tui"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// лимит запросов локального API в минуту
const apiRateLimit = 100

func doTUI(ctx context.Context, e *env, args []string) int {
	err := tui.Run(ctx, e.svc, e.app.Notifications(), tui.Options{
		ExportDir:      e.app.Config().Backup.Dir,
		Location:       e.opt.Location,
		SavePermission: e.savePermission,
	})
	if err != nil {
		fail(e.opt.Stderr, "tui: "+err.Error())
		return 1
	}
	return 0
}

func doAdd(ctx context.Context, e *env, args []string) int {
	fs := newFlagSet("add", e)
	typ := fs.String("type", string(item.TypePlan), "plans или notes")
	remind := fs.String("remind", "", "время напоминания")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	title, body := splitBody(fs.Args())
	if title == "" && body == "" {
		fail(e.opt.Stderr, `usage: notebook add [-type plans|notes] [-remind T] <title...> [-- body...]`)
		return 2
	}
	if !e.checkRemind(*remind) {
		return 2
	}

	created, err := e.ctrl.Add(ctx, item.Type(*typ), title, body, *remind)
	if err != nil {
		return e.failErr(err)
	}
	ok(e.opt.Stdout, "added "+shortID(created.ID))
	return 0
}

// splitBody: слова до "--" - заголовок, после - текст
func splitBody(args []string) (string, string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return strings.Join(args, " "), ""
	}
	return strings.Join(args[:i], " "), strings.Join(args[i+1:], " ")
}

func doList(ctx context.Context, e *env, args []string) int {
	fs := newFlagSet("ls", e)
	tab := fs.String("tab", string(service.TabPlans), "plans, notes или done")
	query := fs.String("q", "", "поиск по заголовку и тексту")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !slices.Contains(service.Tabs, service.Tab(*tab)) {
		fail(e.opt.Stderr, "ls: -tab должен быть plans, notes или done")
		return 2
	}

	e.ctrl.SetTab(service.Tab(*tab))
	e.ctrl.SetQuery(*query)
	items := e.ctrl.Visible(ctx)

	fmt.Fprintf(e.opt.Stdout, "%s  %s\n", titleStyle.Render(*tab), mutedStyle.Render(fmt.Sprintf("(%d)", len(items))))
	if len(items) == 0 {
		fmt.Fprintln(e.opt.Stdout, mutedStyle.Render("Поки тут пусто ✨"))
		return 0
	}
	for _, it := range items {
		fmt.Fprintln(e.opt.Stdout, listLine(it, e.opt.Location))
	}
	return 0
}

func doShow(ctx context.Context, e *env, args []string) int {
	if len(args) != 1 {
		fail(e.opt.Stderr, "usage: notebook show <id>")
		return 2
	}
	id, code := e.resolve(ctx, args[0])
	if code != 0 {
		return code
	}

	it, err := e.svc.GetItem(ctx, id)
	if err != nil {
		return e.failErr(err)
	}
	fmt.Fprint(e.opt.Stdout, details(it, e.opt.Location))
	return 0
}

func doEdit(ctx context.Context, e *env, args []string) int {
	rawID, args := splitID(args)

	fs := newFlagSet("edit", e)
	title := fs.String("title", "", "новый заголовок")
	body := fs.String("body", "", "новый текст")
	remind := fs.String("remind", "", "время напоминания, пусто - снять")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if rawID == "" && fs.NArg() > 0 {
		rawID = fs.Arg(0)
	}

	id, code := e.resolve(ctx, rawID)
	if code != 0 {
		return code
	}

	e.ctrl.Select(ctx, id)
	form := e.ctrl.Form()
	set := 0
	fs.Visit(func(f *flag.Flag) {
		set++
		switch f.Name {
		case "title":
			form.Title = *title
		case "body":
			form.Body = *body
		case "remind":
			form.RemindAt = *remind
		}
	})
	if set == 0 {
		fail(e.opt.Stderr, "edit: нечего менять, укажи -title, -body или -remind")
		return 2
	}
	if !e.checkRemind(form.RemindAt) {
		return 2
	}

	e.ctrl.SetForm(form)
	if _, err := e.ctrl.SaveEdit(ctx); err != nil {
		return e.failErr(err)
	}
	ok(e.opt.Stdout, "saved "+shortID(id))
	return 0
}

func doDone(ctx context.Context, e *env, args []string) int {
	if len(args) != 1 {
		fail(e.opt.Stderr, "usage: notebook done <id>")
		return 2
	}
	id, code := e.resolve(ctx, args[0])
	if code != 0 {
		return code
	}

	e.ctrl.Select(ctx, id)
	if _, err := e.ctrl.MarkDone(ctx); err != nil {
		return e.failErr(err)
	}
	ok(e.opt.Stdout, "done "+shortID(id))
	return 0
}

func doRemove(ctx context.Context, e *env, args []string) int {
	rawID, args := splitID(args)

	fs := newFlagSet("rm", e)
	yes := fs.Bool("y", false, "не спрашивать подтверждение")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if rawID == "" && fs.NArg() > 0 {
		rawID = fs.Arg(0)
	}

	id, code := e.resolve(ctx, rawID)
	if code != 0 {
		return code
	}

	e.assumeYes = *yes
	e.ctrl.Select(ctx, id)
	deleted, err := e.ctrl.Delete(ctx)
	if err != nil {
		return e.failErr(err)
	}
	if !deleted {
		fmt.Fprintln(e.opt.Stdout, mutedStyle.Render("скасовано"))
		return 0
	}
	ok(e.opt.Stdout, "removed "+shortID(id))
	return 0
}

func doExport(ctx context.Context, e *env, args []string) int {
	if len(args) > 1 {
		fail(e.opt.Stderr, "usage: notebook export [file]")
		return 2
	}
	path := backup.FileName
	if len(args) == 1 {
		path = args[0]
	}

	items := e.svc.ListItems(ctx)
	if err := backup.ExportFile(path, items); err != nil {
		fail(e.opt.Stderr, "export: "+err.Error())
		return 1
	}
	ok(e.opt.Stdout, fmt.Sprintf("exported %d items to %s", len(items), path))
	return 0
}

func doImport(ctx context.Context, e *env, args []string) int {
	fs := newFlagSet("import", e)
	check := fs.Bool("check", false, "только проверить файл")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fail(e.opt.Stderr, "usage: notebook import [-check] <file>")
		return 2
	}
	path := fs.Arg(0)

	if *check {
		items, err := backup.ImportFile(path)
		if err != nil {
			return e.failErr(service.NewImportError(err))
		}
		ok(e.opt.Stdout, fmt.Sprintf("%s: %d items, ok", path, len(items)))
		return 0
	}

	file, err := os.Open(path)
	if err != nil {
		return e.failErr(service.NewImportError(err))
	}
	defer file.Close()

	count, err := e.svc.Import(ctx, file)
	if err != nil {
		return e.failErr(err)
	}
	ok(e.opt.Stdout, fmt.Sprintf("Імпорт готовий ✅ (%d)", count))
	return 0
}

// doNotify спрашивает разрешение и сохраняет решение в конфигурации
func doNotify(ctx context.Context, e *env, args []string) int {
	center := e.app.Notifications()
	center.SetSink(notify.NewWriterSink(e.opt.Stdout))
	center.SetPrompter(func(ctx context.Context) (bool, error) {
		fmt.Fprint(e.opt.Stdout, "Дозволити сповіщення? [y/N] ")
		answer, err := e.stdin.ReadString('\n')
		if err != nil && answer == "" {
			return false, nil
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes" || answer == "т" || answer == "так", nil
	})

	permission, err := center.RequestPermission(ctx)
	if errors.Is(err, notify.ErrUnsupported) {
		fail(e.opt.Stderr, "Сповіщення не підтримуються.")
		return 1
	}
	if err != nil {
		fail(e.opt.Stderr, err.Error())
		return 1
	}

	if err := e.savePermission(permission); err != nil {
		fail(e.opt.Stderr, "не удалось сохранить решение: "+err.Error())
		return 1
	}

	switch permission {
	case notify.PermissionGranted:
		ok(e.opt.Stdout, "Сповіщення дозволені.")
	case notify.PermissionDenied:
		fmt.Fprintln(e.opt.Stdout, "Сповіщення не дозволені. Зміни notifications.permission у конфігурації.")
	default:
		fmt.Fprintln(e.opt.Stdout, "Рішення не прийнято.")
	}
	return 0
}

func doServe(ctx context.Context, e *env, args []string) int {
	e.app.Notifications().SetSink(notify.NewWriterSink(e.opt.Stdout))
	if err := e.app.StartBackground(ctx); err != nil {
		fail(e.opt.Stderr, err.Error())
		return 1
	}

	server := &http.Server{
		Addr:              e.app.Config().GetServerAddr(),
		Handler:           handlers.NewRouter(handlers.NewItemHandler(e.svc), apiRateLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fail(e.opt.Stderr, "serve: "+err.Error())
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Ошибка остановки сервера", zap.Error(err))
		}
		logger.Info("Server stopped")
	}
	return 0
}

// doDaemon держит напоминания до сигнала остановки
func doDaemon(ctx context.Context, e *env, args []string) int {
	e.app.Notifications().SetSink(notify.NewWriterSink(e.opt.Stdout))
	if err := e.app.StartBackground(ctx); err != nil {
		fail(e.opt.Stderr, err.Error())
		return 1
	}

	logger.Info("Daemon: Напоминания активны", zap.Int("pending", e.app.Scheduler().PendingCount()))
	<-ctx.Done()
	logger.Info("Daemon: Остановка")
	return 0
}
