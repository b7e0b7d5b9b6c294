package dayengine

import (
	"sort"
	"sync"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/utils"
)

// DayStore is the part of the storage provider the controller needs.
type DayStore interface {
	GetSettings() (models.Settings, error)
	GetDayRecord(date string) (models.DayRecord, error)
	InsertDayRecordIfAbsent(rec models.DayRecord) (bool, error)
	SaveDayRecord(rec models.DayRecord) error
	GetDayRecords(dates []string) ([]models.DayRecord, error)
}

// Controller owns every read and write of day records.
type Controller struct {
	store DayStore
	clock Clock

	mu        sync.Mutex
	listeners map[int]func(date string)
	nextID    int
}

func NewController(store DayStore, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Controller{
		store:     store,
		clock:     clock,
		listeners: make(map[int]func(string)),
	}
}

// Clock returns the controller's clock.
func (c *Controller) Clock() Clock { return c.clock }

// Settings returns the stored settings, falling back to defaults when none
// have been saved yet.
func (c *Controller) Settings() (models.Settings, error) {
	settings, err := c.store.GetSettings()
	if apperrors.IsNotFound(err) {
		return models.DefaultSettings(), nil
	}
	return settings, err
}

// TodayKey resolves the effective date key from a fresh clock reading.
func (c *Controller) TodayKey() (string, error) {
	settings, err := c.Settings()
	if err != nil {
		return "", err
	}
	return ResolveAt(c.clock, settings)
}

// GetOrCreateToday returns the record for the current effective day,
// creating it if needed.
func (c *Controller) GetOrCreateToday() (models.DayRecord, error) {
	key, err := c.TodayKey()
	if err != nil {
		return models.DayRecord{}, err
	}
	return c.GetOrCreate(key)
}

// Get returns the record for date without creating it.
func (c *Controller) Get(date string) (models.DayRecord, error) {
	if _, err := utils.ParseDateKey(date); err != nil {
		return models.DayRecord{}, err
	}
	return c.store.GetDayRecord(date)
}

// GetOrCreate returns the record for date. On a miss it inserts the empty
// record only if no other writer has created one meanwhile, then returns
// whatever is stored. Calling it any number of times leaves one record.
func (c *Controller) GetOrCreate(date string) (models.DayRecord, error) {
	rec, err := c.Get(date)
	if err == nil || !apperrors.IsNotFound(err) {
		return rec, err
	}

	created, err := c.store.InsertDayRecordIfAbsent(models.NewDayRecord(date, c.clock.Now()))
	if err != nil {
		return models.DayRecord{}, err
	}
	if created {
		logger.Info("Created day record", "date", date)
		c.notify(date)
	}
	return c.store.GetDayRecord(date)
}

// UpdateField applies cmds to the record for date and saves it. A missing
// record is left alone and no error is returned.
func (c *Controller) UpdateField(date string, cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}
	rec, err := c.Get(date)
	if apperrors.IsNotFound(err) {
		logger.Debug("Skipping update of missing day record", "date", date)
		return nil
	}
	if err != nil {
		return err
	}

	next, err := Replay(rec, cmds)
	if err != nil {
		return err
	}
	next.UpdatedAt = c.clock.Now()
	if err := c.store.SaveDayRecord(next); err != nil {
		return err
	}
	c.notify(date)
	return nil
}

func (c *Controller) UpdateTop3(date string, index int, value string) error {
	return c.UpdateField(date, SetTop3{Index: index, Value: value})
}

func (c *Controller) ToggleTop3Done(date string, index int) error {
	return c.UpdateField(date, ToggleTop3Done{Index: index})
}

func (c *Controller) UpdateOneAction(date, value string) error {
	return c.UpdateField(date, SetOneAction{Value: value})
}

func (c *Controller) ToggleOneActionDone(date string) error {
	return c.UpdateField(date, ToggleOneActionDone{})
}

// AddStudyMinutes adds minutes to the day's study total.
func (c *Controller) AddStudyMinutes(date string, minutes int) error {
	return c.UpdateField(date, AddStudyMinutes{Minutes: minutes})
}

func (c *Controller) UpdateRunPlan(date string, plan models.RunPlan) error {
	return c.UpdateField(date, SetRunPlan{Plan: plan})
}

func (c *Controller) ToggleRunDone(date string) error {
	return c.UpdateField(date, ToggleRunDone{})
}

func (c *Controller) UpdateNotes(date string, notes []string) error {
	return c.UpdateField(date, SetNotes{Notes: notes})
}

// CopyFromYesterday copies the top3 items and the one action of the
// previous calendar day into date. Nothing happens when yesterday has no
// record.
func (c *Controller) CopyFromYesterday(date string) error {
	yesterday, err := utils.AddDays(date, -1)
	if err != nil {
		return err
	}
	prev, err := c.Get(yesterday)
	if apperrors.IsNotFound(err) {
		logger.Debug("No record to copy", "date", yesterday)
		return nil
	}
	if err != nil {
		return err
	}

	cmds := make([]Command, 0, len(prev.Top3)+1)
	for i, item := range prev.Top3 {
		cmds = append(cmds, SetTop3{Index: i, Value: item})
	}
	cmds = append(cmds, SetOneAction{Value: prev.OneAction})
	return c.UpdateField(date, cmds...)
}

// GetRange returns the records stored for the given dates.
func (c *Controller) GetRange(dates []string) ([]models.DayRecord, error) {
	return c.store.GetDayRecords(dates)
}

// OnChange registers fn to be called with the date of every record the
// controller writes. The returned func removes the registration.
func (c *Controller) OnChange(fn func(date string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller) notify(date string) {
	for _, fn := range snapshotListeners(&c.mu, c.listeners) {
		fn(date)
	}
}

// snapshotListeners copies a registry under its lock, ordered by
// registration, so callbacks run without holding it.
func snapshotListeners(mu *sync.Mutex, registry map[int]func(string)) []func(string) {
	mu.Lock()
	defer mu.Unlock()

	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, registry[id])
	}
	return fns
}
