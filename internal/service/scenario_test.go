package service_test

import (
	"context"
	"myNotebook/internal/models/item"
	"myNotebook/internal/notify"
	"myNotebook/internal/repository/item/inmemory"
	"myNotebook/internal/repository/kv/memkv"
	"myNotebook/internal/service"
	"myNotebook/internal/worker"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectSink struct {
	mtx sync.Mutex
	got []notify.Notification
}

func (s *collectSink) Deliver(ctx context.Context, n notify.Notification) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.got = append(s.got, n)
	return nil
}

func (s *collectSink) titles() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	res := []string{}
	for _, n := range s.got {
		res = append(res, n.Title)
	}
	return res
}

type scenario struct {
	svc       *service.NotebookService
	scheduler *worker.ReminderScheduler
	sink      *collectSink
	clock     *clock.Mock
}

func newScenario(t *testing.T, store *memkv.Storage) *scenario {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	sink := &collectSink{}
	center := notify.NewCenter(sink, notify.PermissionGranted, nil)
	scheduler := worker.NewReminderScheduler(clk, center, nil, nil)
	repo := inmemory.NewItemStorage(store, "")

	return &scenario{
		svc:       service.NewNotebookService(repo, scheduler, clk),
		scheduler: scheduler,
		sink:      sink,
		clock:     clk,
	}
}

// TestScenario_Reminder тестирует напоминание от создания до срабатывания
func TestScenario_Reminder(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t, memkv.New())

	remind := sc.clock.Now().Add(time.Hour)
	it, err := sc.svc.CreateItem(ctx, item.TypePlan, "Buy milk", "", &remind)
	require.NoError(t, err)
	assert.True(t, sc.scheduler.Pending(it.ID))

	visible := sc.svc.VisibleItems(ctx, service.TabPlans, "")
	require.Len(t, visible, 1)
	assert.Equal(t, "Buy milk", visible[0].Title)

	sc.clock.Add(time.Hour)
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"Buy milk"}, sc.sink.titles())
	}, time.Second, 10*time.Millisecond)

	// пустой текст заменяется подписью по умолчанию
	sc.sink.mtx.Lock()
	defer sc.sink.mtx.Unlock()
	assert.Equal(t, worker.DefaultBodyFallback, sc.sink.got[0].Body)
}

// TestScenario_DoneCancelsReminder тестирует, что выполненная запись не напоминает
func TestScenario_DoneCancelsReminder(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t, memkv.New())

	remind := sc.clock.Now().Add(time.Hour)
	it, err := sc.svc.CreateItem(ctx, item.TypePlan, "Buy milk", "", &remind)
	require.NoError(t, err)

	_, err = sc.svc.MarkDone(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, sc.scheduler.Pending(it.ID))

	sc.clock.Add(2 * time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, sc.sink.titles())

	done := sc.svc.VisibleItems(ctx, service.TabDone, "")
	require.Len(t, done, 1)
	assert.Empty(t, sc.svc.VisibleItems(ctx, service.TabPlans, ""))
}

// TestScenario_Restart тестирует восстановление таймеров после перезапуска
func TestScenario_Restart(t *testing.T) {
	ctx := context.Background()
	store := memkv.New()

	first := newScenario(t, store)
	remind := first.clock.Now().Add(time.Hour)
	_, err := first.svc.CreateItem(ctx, item.TypePlan, "Buy milk", "", &remind)
	require.NoError(t, err)
	passed := first.clock.Now().Add(time.Minute)
	_, err = first.svc.CreateItem(ctx, item.TypePlan, "Old", "", &passed)
	require.NoError(t, err)
	first.scheduler.CancelAll()

	second := newScenario(t, store)
	second.clock.Add(30 * time.Minute)
	assert.Equal(t, 1, second.svc.Start(ctx))
	assert.Len(t, second.svc.ListItems(ctx), 2)

	second.clock.Add(30 * time.Minute)
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"Buy milk"}, second.sink.titles())
	}, time.Second, 10*time.Millisecond)
}

// TestScenario_ImportReplacesTimers тестирует, что импорт снимает таймеры исчезнувших записей
func TestScenario_ImportReplacesTimers(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t, memkv.New())

	remind := sc.clock.Now().Add(time.Hour)
	old, err := sc.svc.CreateItem(ctx, item.TypePlan, "Old", "", &remind)
	require.NoError(t, err)

	input := `[{"id":"new-1","type":"plans","status":"active","title":"New","body":"",` +
		`"createdAt":"2026-05-01T09:00:00Z","updatedAt":null,"remindAt":"2026-05-01T12:00:00Z"}]`
	n, err := sc.svc.Import(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.False(t, sc.scheduler.Pending(old.ID))
	assert.True(t, sc.scheduler.Pending("new-1"))

	sc.clock.Add(2 * time.Hour)
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"New"}, sc.sink.titles())
	}, time.Second, 10*time.Millisecond)
}

// TestScenario_ResyncSeesOtherProcess тестирует фоновый процесс, который делит
// хранилище с командной строкой: новые записи получают таймер, выполненные и
// удалённые в другом процессе больше не напоминают.
func TestScenario_ResyncSeesOtherProcess(t *testing.T) {
	ctx := context.Background()
	store := memkv.New()

	daemon := newScenario(t, store)
	daemon.svc.Start(ctx)
	job := worker.NewResyncJob(daemon.svc.Resync, nil)

	cli := newScenario(t, store)
	cli.svc.Start(ctx)

	remind := cli.clock.Now().Add(time.Hour)
	added, err := cli.svc.CreateItem(ctx, item.TypePlan, "Added elsewhere", "", &remind)
	require.NoError(t, err)
	done, err := cli.svc.CreateItem(ctx, item.TypePlan, "Done elsewhere", "", &remind)
	require.NoError(t, err)
	removed, err := cli.svc.CreateItem(ctx, item.TypePlan, "Removed elsewhere", "", &remind)
	require.NoError(t, err)

	job.RunOnce()
	assert.True(t, daemon.scheduler.Pending(added.ID))
	assert.True(t, daemon.scheduler.Pending(done.ID))
	assert.True(t, daemon.scheduler.Pending(removed.ID))

	_, err = cli.svc.MarkDone(ctx, done.ID)
	require.NoError(t, err)
	require.NoError(t, cli.svc.DeleteItem(ctx, removed.ID))

	job.RunOnce()
	assert.True(t, daemon.scheduler.Pending(added.ID))
	assert.False(t, daemon.scheduler.Pending(done.ID))
	assert.False(t, daemon.scheduler.Pending(removed.ID))
	assert.Len(t, daemon.svc.ListItems(ctx), 2)

	// таймеры самой командной строки к фоновому процессу отношения не имеют
	cli.scheduler.CancelAll()

	daemon.clock.Add(2 * time.Hour)
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"Added elsewhere"}, daemon.sink.titles())
	}, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"Added elsewhere"}, daemon.sink.titles())
}

// TestResync_ReadErrorKeepsItems тестирует, что сбой чтения не стирает коллекцию
func TestResync_ReadErrorKeepsItems(t *testing.T) {
	ctx := context.Background()
	store := memkv.New()
	sc := newScenario(t, store)

	remind := sc.clock.Now().Add(time.Hour)
	it, err := sc.svc.CreateItem(ctx, item.TypePlan, "Buy milk", "", &remind)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "my_notebook_v1", "{broken"))

	assert.Equal(t, 1, sc.svc.Resync(ctx))
	assert.Len(t, sc.svc.ListItems(ctx), 1)
	assert.True(t, sc.scheduler.Pending(it.ID))
}
