package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/ddj1226/SpendSense/internal/clock"
	"github.com/ddj1226/SpendSense/internal/models"
	"gonum.org/v1/gonum/mat"
)

// Options configures the additive trend model
type Options struct {
	// DailySeasonality adds a one-day Fourier cycle. On a series sampled once per day the cycle
	// has no variance and is absorbed into the intercept.
	DailySeasonality bool

	// WeeklySeasonality adds a seven-day cycle when the history spans at least two weeks.
	WeeklySeasonality bool

	// YearlySeasonality adds a 365.25-day cycle. Off by default: a 180-day window cannot pin it down.
	YearlySeasonality bool

	// NumChangepoints is the maximum number of trend changepoints.
	NumChangepoints int

	// ChangepointRange is the leading fraction of the history that may hold changepoints.
	ChangepointRange float64

	// ChangepointPriorScale controls trend flexibility. Smaller values give a stiffer trend.
	ChangepointPriorScale float64

	// SeasonalityPriorScale controls seasonal amplitude.
	SeasonalityPriorScale float64
}

// DefaultOptions returns the configuration used for goal projections
func DefaultOptions() Options {
	return Options{
		DailySeasonality:      true,
		WeeklySeasonality:     true,
		YearlySeasonality:     false,
		NumChangepoints:       25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
	}
}

type seasonality struct {
	period float64 // days
	order  int
}

var (
	dailyCycle  = seasonality{period: 1, order: 4}
	weeklyCycle = seasonality{period: 7, order: 3}
	yearlyCycle = seasonality{period: 365.25, order: 10}
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// minColumnRange is the spread below which a design column is treated as constant
const minColumnRange = 1e-9

// AdditiveFitter fits a piecewise-linear trend plus Fourier seasonalities by penalised least squares
type AdditiveFitter struct {
	opts Options
}

// NewAdditiveFitter creates a fitter with the given options
func NewAdditiveFitter(opts Options) *AdditiveFitter {
	return &AdditiveFitter{opts: opts}
}

type additiveModel struct {
	start         time.Time
	span          float64   // days from first to last observation
	scale         float64   // max |y|
	changepoints  []float64 // scaled time of each hinge
	seasonalities []seasonality
	keep          []int // indices of retained raw columns
	beta          []float64
}

// Fit implements Fitter
func (f *AdditiveFitter) Fit(series []models.BalancePoint) (Model, error) {
	n := len(series)
	if n < 2 {
		return nil, ErrInsufficientHistory
	}

	y := make([]float64, n)
	days := make([]float64, n)
	for i, p := range series {
		if i > 0 && !p.Date.After(series[i-1].Date) {
			return nil, ErrUnorderedHistory
		}
		v, _ := p.Balance.Float64()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
		y[i] = v
		days[i] = float64(clock.DaysBetween(series[0].Date, p.Date))
	}

	m := &additiveModel{
		start: series[0].Date,
		span:  days[n-1],
		scale: 1,
	}
	if m.span <= 0 {
		return nil, ErrInsufficientHistory
	}
	for _, v := range y {
		m.scale = math.Max(m.scale, math.Abs(v))
	}
	for i := range y {
		y[i] /= m.scale
	}

	m.changepoints = f.changepoints(days, m.span)
	if f.opts.DailySeasonality {
		m.seasonalities = append(m.seasonalities, dailyCycle)
	}
	if f.opts.WeeklySeasonality && m.span >= 14 {
		m.seasonalities = append(m.seasonalities, weeklyCycle)
	}
	if f.opts.YearlySeasonality {
		m.seasonalities = append(m.seasonalities, yearlyCycle)
	}

	raw := make([][]float64, n)
	for i, p := range series {
		raw[i] = m.rawFeatures(p.Date)
	}
	m.keep = retainedColumns(raw)

	sigma2 := trendResidualVariance(days, y)
	penalties := m.penalties(f.opts, sigma2)

	rows := n
	for _, p := range penalties {
		if p > 0 {
			rows++
		}
	}
	cols := len(m.keep)
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < n; i++ {
		for j, c := range m.keep {
			a.Set(i, j, raw[i][c])
		}
		b.SetVec(i, y[i])
	}
	r := n
	for j, p := range penalties {
		if p > 0 {
			a.Set(r, j, math.Sqrt(p))
			r++
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailed, err)
	}
	m.beta = make([]float64, cols)
	for j := range m.beta {
		v := beta.AtVec(j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
		m.beta[j] = v
	}

	return m, nil
}

// PredictAt implements Model
func (m *additiveModel) PredictAt(dates []time.Time) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, d := range dates {
		raw := m.rawFeatures(d)
		var v float64
		for j, c := range m.keep {
			v += raw[c] * m.beta[j]
		}
		v *= m.scale
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
		out[i] = v
	}
	return out, nil
}

// changepoints places hinges on observed dates spread evenly over the leading ChangepointRange
// of the history
func (f *AdditiveFitter) changepoints(days []float64, span float64) []float64 {
	histSize := int(math.Floor(float64(len(days)) * f.opts.ChangepointRange))
	count := f.opts.NumChangepoints
	if count+1 > histSize {
		count = histSize - 1
	}
	if count <= 0 {
		return nil
	}

	out := make([]float64, 0, count)
	step := float64(histSize-1) / float64(count)
	for k := 1; k <= count; k++ {
		idx := int(math.Round(float64(k) * step))
		out = append(out, days[idx]/span)
	}
	return out
}

// rawFeatures returns intercept, slope, hinges and every Fourier term for d
func (m *additiveModel) rawFeatures(d time.Time) []float64 {
	t := float64(clock.DaysBetween(m.start, d)) / m.span
	out := []float64{1, t}
	for _, s := range m.changepoints {
		out = append(out, math.Max(0, t-s))
	}

	abs := float64(clock.DaysBetween(epoch, d))
	for _, s := range m.seasonalities {
		phase := 2 * math.Pi * math.Mod(abs, s.period) / s.period
		for k := 1; k <= s.order; k++ {
			out = append(out, math.Sin(float64(k)*phase), math.Cos(float64(k)*phase))
		}
	}
	return out
}

// penalties returns the ridge weight for each retained column
func (m *additiveModel) penalties(opts Options, sigma2 float64) []float64 {
	hingeEnd := 2 + len(m.changepoints)
	out := make([]float64, len(m.keep))
	for j, c := range m.keep {
		switch {
		case c < 2:
			// intercept and base slope are unpenalised
		case c < hingeEnd:
			out[j] = sigma2 / (opts.ChangepointPriorScale * opts.ChangepointPriorScale)
		default:
			out[j] = sigma2 / (opts.SeasonalityPriorScale * opts.SeasonalityPriorScale)
		}
	}
	return out
}

// retainedColumns drops constant columns other than the intercept
func retainedColumns(raw [][]float64) []int {
	width := len(raw[0])
	keep := []int{0}
	for c := 1; c < width; c++ {
		lo, hi := raw[0][c], raw[0][c]
		for _, row := range raw[1:] {
			lo = math.Min(lo, row[c])
			hi = math.Max(hi, row[c])
		}
		if hi-lo > minColumnRange {
			keep = append(keep, c)
		}
	}
	return keep
}

// trendResidualVariance is the residual variance of a straight-line fit, floored so that
// perfectly linear series still receive a non-zero penalty
func trendResidualVariance(x, y []float64) float64 {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}
	var slope float64
	if denom := n*sumX2 - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	var ss float64
	for i := range x {
		r := y[i] - (slope*x[i] + intercept)
		ss += r * r
	}
	return math.Max(ss/n, 1e-6)
}
