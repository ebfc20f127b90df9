package scene

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// skyKey is one point of the day/night colour cycle
type skyKey struct {
	at      float64
	zenith  core.Vec3
	horizon core.Vec3
}

// skyKeys runs from midnight (0) through noon (0.5) back to midnight (1)
var skyKeys = []skyKey{
	{0.00, core.NewVec3(0.01, 0.01, 0.08), core.NewVec3(0.02, 0.02, 0.10)},
	{0.20, core.NewVec3(0.05, 0.05, 0.15), core.NewVec3(0.05, 0.05, 0.15)},
	{0.30, core.NewVec3(0.30, 0.15, 0.40), core.NewVec3(0.90, 0.40, 0.60)},
	{0.35, core.NewVec3(0.40, 0.50, 0.90), core.NewVec3(1.00, 0.60, 0.30)},
	{0.45, core.NewVec3(0.30, 0.50, 1.00), core.NewVec3(0.60, 0.80, 1.00)},
	{0.50, core.NewVec3(0.20, 0.40, 0.95), core.NewVec3(0.50, 0.70, 1.00)},
	{0.65, core.NewVec3(0.20, 0.40, 0.95), core.NewVec3(0.50, 0.70, 1.00)},
	{0.70, core.NewVec3(0.40, 0.50, 0.90), core.NewVec3(0.70, 0.70, 0.90)},
	{0.75, core.NewVec3(0.60, 0.40, 0.70), core.NewVec3(1.00, 0.50, 0.20)},
	{0.80, core.NewVec3(0.40, 0.20, 0.50), core.NewVec3(0.90, 0.30, 0.40)},
	{0.90, core.NewVec3(0.10, 0.10, 0.25), core.NewVec3(0.30, 0.15, 0.30)},
	{1.00, core.NewVec3(0.01, 0.01, 0.08), core.NewVec3(0.02, 0.02, 0.10)},
}

var (
	baseAmbient = core.NewVec3(0.15, 0.15, 0.18)
	noonSun     = core.NewVec3(1.0, 0.98, 0.94)
	lowSun      = core.NewVec3(1.0, 0.6, 0.3)
)

// Daylight derives the environment for a fraction of the day (0 midnight,
// 0.25 sunrise, 0.5 noon, 0.75 sunset) and a simulation time in seconds.
// The fraction wraps, so any real value is accepted.
func Daylight(timeOfDay, simTime float64) Environment {
	tod := timeOfDay - math.Floor(timeOfDay)
	if math.IsNaN(tod) || math.IsInf(timeOfDay, 0) {
		tod = 0.5
	}

	zenith, horizon := skyAt(tod)

	// The sun rises in +X, peaks overhead at noon and sets in -X
	angle := (tod - 0.25) * 2 * math.Pi
	elevation := math.Sin(angle)
	sunDir := core.NewVec3(math.Cos(angle), elevation, 0.25).Normalize()

	daylight := max(0, min(1, elevation))
	return Environment{
		Time:         simTime,
		TimeOfDay:    tod,
		SunDirection: sunDir,
		SunColor:     lowSun.Lerp(noonSun, math.Sqrt(daylight)),
		SunIntensity: min(1, 1.2*daylight),
		Zenith:       zenith,
		Horizon:      horizon,
		Ground:       horizon.Multiply(0.6),
		Ambient:      baseAmbient.Multiply(0.3 + 0.7*daylight),
	}
}

// skyAt interpolates the zenith and horizon colours between the surrounding keys
func skyAt(tod float64) (core.Vec3, core.Vec3) {
	i := sort.Search(len(skyKeys), func(i int) bool { return skyKeys[i].at > tod })
	if i == 0 {
		return skyKeys[0].zenith, skyKeys[0].horizon
	}
	if i >= len(skyKeys) {
		last := skyKeys[len(skyKeys)-1]
		return last.zenith, last.horizon
	}

	a, b := skyKeys[i-1], skyKeys[i]
	t := (tod - a.at) / (b.at - a.at)
	return a.zenith.Lerp(b.zenith, t), a.horizon.Lerp(b.horizon, t)
}
