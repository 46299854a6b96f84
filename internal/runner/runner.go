package runner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	hservice "signal_bot/internal/modules/health/service"
	jservice "signal_bot/internal/modules/journal/service"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

type MarketData interface {
	GetCandles(ctx context.Context, instID, bar string, limit int) (models.CandleSeries, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, r models.OrderRequest) (models.OrderResult, error)
}

type Notifier interface {
	Send(msg string)
}

type Journal interface {
	Record(ctx context.Context, e jservice.Entry) error
}

type Stage string

const (
	StageFetching  Stage = "Fetching"
	StageComputing Stage = "Computing"
	StageDeciding  Stage = "Deciding"
	StageOrdering  Stage = "Ordering"
	StageSleeping  Stage = "Sleeping"
)

// CycleResult — итог одного цикла. Stage — стадия, на которой цикл остановился.
type CycleResult struct {
	ID       string
	Stage    Stage
	Decision models.Decision
	Decided  bool
	Order    *models.OrderResult
	Err      error
}

type Settings struct {
	InstID    string
	Bar       string
	Limit     int
	Interval  time.Duration
	Indicator indicator.Settings
	OrderSize decimal.Decimal
	OrdType   models.OrdType
}

func SettingsFromConfig(cfg *config.Config) Settings {
	s := cfg.Strategy
	return Settings{
		InstID:   s.InstID,
		Bar:      s.Timeframe,
		Limit:    s.CandleLimit,
		Interval: s.PollInterval,
		Indicator: indicator.Settings{
			RSIPeriod:  s.RSIPeriod,
			MACDFast:   s.MACDFast,
			MACDSlow:   s.MACDSlow,
			MACDSignal: s.MACDSignal,
		},
		OrderSize: cfg.OrderSize(),
		OrdType:   models.OrdType(strings.ToLower(strings.TrimSpace(cfg.Order.Type))),
	}
}

type Runner struct {
	cfg     Settings
	md      MarketData
	orders  OrderPlacer
	engine  strategy.Engine
	n       Notifier
	journal Journal
	state   *hservice.State
	clock   Clock
	newID   func() string
}

func New(
	cfg Settings,
	md MarketData,
	orders OrderPlacer,
	engine strategy.Engine,
	n Notifier,
	journal Journal,
	state *hservice.State,
	clock Clock,
) *Runner {
	if clock == nil {
		clock = NewClock()
	}
	return &Runner{
		cfg:     cfg,
		md:      md,
		orders:  orders,
		engine:  engine,
		n:       n,
		journal: journal,
		state:   state,
		clock:   clock,
		newID:   func() string { return uuid.NewString() },
	}
}

// Run крутит циклы до отмены ctx. Отмена проверяется только на границе сна:
// начатый цикл доигрывается до конца.
func (r *Runner) Run(ctx context.Context) {
	logger.Info("runner started: %s %s every %s (strategy %s)", r.cfg.InstID, r.cfg.Bar, r.cfg.Interval, r.engine.Name())
	for {
		if ctx.Err() != nil {
			break
		}
		r.RunOnce(ctx)

		if !r.sleep(ctx) {
			break
		}
	}
	logger.Info("runner stopped")
}

func (r *Runner) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-r.clock.After(r.cfg.Interval):
		return true
	}
}

// RunOnce — один цикл Fetching → Computing → Deciding → Ordering.
// Любая ошибка или паника обрывает цикл; наружу ничего не пробрасывается.
func (r *Runner) RunOnce(parent context.Context) (res CycleResult) {
	ctx := context.WithoutCancel(parent)
	res.ID = r.newID()

	span, ctx := tracing.StartSpan(ctx, "cycle")
	span.SetTag("cycle_id", res.ID)
	span.SetTag("inst_id", r.cfg.InstID)

	defer func() {
		if p := recover(); p != nil {
			res.Err = errors.Errorf("panic in %s: %v", res.Stage, p)
			logger.Error("[%s] cycle panic: %v", res.ID, p)
			r.notify(fmt.Sprintf("⚠️ %s cycle crashed at %s: %v", r.cfg.InstID, res.Stage, p))
		}
		tracing.Fail(span, res.Err)
		span.SetTag("stage", string(res.Stage))
		span.Finish()
		r.finish(ctx, res)
	}()

	res.Stage = StageFetching
	series, err := r.fetch(ctx)
	if err != nil {
		res.Err = err
		logger.Warn("[%s] market data unavailable, skipping cycle: %v", res.ID, err)
		return res
	}

	res.Stage = StageComputing
	frame := r.compute(ctx, series)

	res.Stage = StageDeciding
	d, ok := r.engine.Latest(frame)
	if !ok {
		res.Err = errors.Wrap(models.ErrParse, "no bars to decide on")
		logger.Warn("[%s] %v", res.ID, res.Err)
		return res
	}
	res.Decision, res.Decided = d, true
	logger.Info("[%s] %s close=%.8g rsi=%.2f macd=%.6f signal=%.6f -> %s (change %+d)",
		res.ID, d.InstID, d.Price, d.RSI, d.MACD, d.Sig, d.Signal, d.Change)

	side := d.Signal.Side()
	if side == models.SideNone {
		return res
	}

	res.Stage = StageOrdering
	out, err := r.placeOrder(ctx, r.orderRequest(d, side))
	res.Order = &out
	if err != nil {
		res.Err = err
		logger.Warn("[%s] order not placed: %v", res.ID, err)
		return res
	}
	logger.Info("[%s] order accepted ordId=%s", res.ID, out.OrdID)
	return res
}

func (r *Runner) fetch(ctx context.Context) (models.CandleSeries, error) {
	span, ctx := tracing.StartSpan(ctx, "fetch")
	defer span.Finish()

	series, err := r.md.GetCandles(ctx, r.cfg.InstID, r.cfg.Bar, r.cfg.Limit)
	if err == nil && series.Len() == 0 {
		err = errors.Wrapf(models.ErrParse, "empty candle window for %s", r.cfg.InstID)
	}
	tracing.Fail(span, err)
	span.SetTag("candles", series.Len())
	return series, err
}

func (r *Runner) compute(ctx context.Context, series models.CandleSeries) models.IndicatorFrame {
	span, _ := tracing.StartSpan(ctx, "compute")
	defer span.Finish()
	return indicator.Compute(series, r.cfg.Indicator)
}

func (r *Runner) placeOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	span, ctx := tracing.StartSpan(ctx, "order")
	defer span.Finish()
	span.SetTag("side", string(req.Side))

	out, err := r.orders.PlaceOrder(ctx, req)
	tracing.Fail(span, err)
	return out, err
}

// orderRequest: для limit цена — close последнего бара, market идёт без цены.
func (r *Runner) orderRequest(d models.Decision, side models.Side) models.OrderRequest {
	req := models.OrderRequest{
		InstID:  d.InstID,
		Side:    side,
		Size:    r.cfg.OrderSize,
		OrdType: r.cfg.OrdType,
	}
	if req.InstID == "" {
		req.InstID = r.cfg.InstID
	}
	if req.OrdType == "" {
		req.OrdType = models.OrdTypeLimit
	}
	if req.OrdType == models.OrdTypeLimit {
		px := decimal.NewFromFloat(d.Price)
		req.Price = &px
	}
	return req
}

// finish: health и журнал. Ошибка журнала не влияет на цикл.
func (r *Runner) finish(ctx context.Context, res CycleResult) {
	signal := ""
	if res.Decided {
		signal = res.Decision.Signal.String()
	}
	if r.state != nil {
		r.state.RecordCycle(r.clock.Now(), string(res.Stage), signal, res.Err != nil)
	}
	if r.journal == nil {
		return
	}

	e := jservice.Entry{
		CycleID:    res.ID,
		InstID:     r.cfg.InstID,
		Bar:        r.cfg.Bar,
		Stage:      string(res.Stage),
		Signal:     signal,
		Change:     res.Decision.Change,
		Close:      res.Decision.Price,
		RSI:        res.Decision.RSI,
		MACD:       res.Decision.MACD,
		MACDSignal: res.Decision.Sig,
		At:         r.clock.Now(),
	}
	if !res.Decided {
		nan := math.NaN()
		e.Close, e.RSI, e.MACD, e.MACDSignal = nan, nan, nan, nan
	}
	if res.Order != nil {
		e.OrderID = res.Order.OrdID
		e.OrderCode = res.Order.Code
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := r.journal.Record(ctx, e); err != nil {
		logger.Error("[%s] journal: %v", res.ID, err)
	}
}

func (r *Runner) notify(msg string) {
	if r.n != nil {
		r.n.Send(msg)
	}
}
