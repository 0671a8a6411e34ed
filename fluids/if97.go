package fluids

import "math"

// IAPWS Industrial Formulation 1997 for the thermodynamic properties of water
// and steam, regions 1 (compressed liquid), 2 (superheated vapour) and 4
// (saturation). All functions take SI units: K, Pa, and return J/kg-based
// quantities.

const (
	// specific gas constant of water [J/kg-K]
	rWater = 461.526
	// critical point of water
	waterTc = 647.096
	waterPc = 22.064e6

	// boundaries of the supported regions
	if97Tmin   = 273.15
	if97Tmax   = 1073.15
	if97Pmax   = 100e6
	if97T13    = 623.15 // upper temperature of region 1
	if97T25max = 863.15 // above this temperature region 2 extends to Pmax
)

// props are the single-phase properties of water at a given temperature and
// pressure.
type props struct {
	v  float64 // specific volume [m³/kg]
	h  float64 // specific enthalpy [J/kg]
	s  float64 // specific entropy [J/kg-K]
	cp float64 // [J/kg-K]
	cv float64 // [J/kg-K]
}

var region1Terms = [34]struct {
	i, j int
	n    float64
}{
	{0, -2, 0.14632971213167},
	{0, -1, -0.84548187169114},
	{0, 0, -0.37563603672040e1},
	{0, 1, 0.33855169168385e1},
	{0, 2, -0.95791963387872},
	{0, 3, 0.15772038513228},
	{0, 4, -0.16616417199501e-1},
	{0, 5, 0.81214629983568e-3},
	{1, -9, 0.28319080123804e-3},
	{1, -7, -0.60706301565874e-3},
	{1, -1, -0.18990068218419e-1},
	{1, 0, -0.32529748770505e-1},
	{1, 1, -0.21841717175414e-1},
	{1, 3, -0.52838357969930e-4},
	{2, -3, -0.47184321073267e-3},
	{2, 0, -0.30001780793026e-3},
	{2, 1, 0.47661393906987e-4},
	{2, 3, -0.44141845330846e-5},
	{2, 17, -0.72694996297594e-15},
	{3, -4, -0.31679644845054e-4},
	{3, 0, -0.28270797985312e-5},
	{3, 6, -0.85205128120103e-9},
	{4, -5, -0.22425281908000e-5},
	{4, -2, -0.65171222895601e-6},
	{4, 10, -0.14341729937924e-12},
	{5, -8, -0.40516996860117e-6},
	{8, -11, -0.12734301741641e-8},
	{8, -6, -0.17424871230634e-9},
	{21, -29, -0.68762131295531e-18},
	{23, -31, 0.14478307828521e-19},
	{29, -38, 0.26335781662795e-22},
	{30, -39, -0.11947622640071e-22},
	{31, -40, 0.18228094581404e-23},
	{32, -41, -0.93537087292458e-25},
}

// region1 returns the properties of compressed liquid water.
func region1(t, p float64) props {
	pi := p / 16.53e6
	tau := 1386 / t
	a, b := 7.1-pi, tau-1.222

	var g, gp, gpp, gt, gtt, gpt float64
	for _, c := range region1Terms {
		i, j := float64(c.i), float64(c.j)
		ai, bj := math.Pow(a, i), math.Pow(b, j)
		g += c.n * ai * bj
		gp -= c.n * i * math.Pow(a, i-1) * bj
		gpp += c.n * i * (i - 1) * math.Pow(a, i-2) * bj
		gt += c.n * ai * j * math.Pow(b, j-1)
		gtt += c.n * ai * j * (j - 1) * math.Pow(b, j-2)
		gpt -= c.n * i * math.Pow(a, i-1) * j * math.Pow(b, j-1)
	}

	rt := rWater * t
	return props{
		v:  pi * gp * rt / p,
		h:  tau * gt * rt,
		s:  (tau*gt - g) * rWater,
		cp: -tau * tau * gtt * rWater,
		cv: (-tau*tau*gtt + (gp-tau*gpt)*(gp-tau*gpt)/gpp) * rWater,
	}
}

var region2Ideal = [9]struct {
	j int
	n float64
}{
	{0, -0.96927686500217e1},
	{1, 0.10086655968018e2},
	{-5, -0.56087911283020e-2},
	{-4, 0.71452738081455e-1},
	{-3, -0.40710498223928},
	{-2, 0.14240819171444e1},
	{-1, -0.43839511319450e1},
	{2, -0.28408632460772},
	{3, 0.21268463753307e-1},
}

var region2Residual = [43]struct {
	i, j int
	n    float64
}{
	{1, 0, -0.17731742473213e-2},
	{1, 1, -0.17834862292358e-1},
	{1, 2, -0.45996013696365e-1},
	{1, 3, -0.57581259083432e-1},
	{1, 6, -0.50325278727930e-1},
	{2, 1, -0.33032641670203e-4},
	{2, 2, -0.18948987516315e-3},
	{2, 4, -0.39392777243355e-2},
	{2, 7, -0.43797295650573e-1},
	{2, 36, -0.26674547914087e-4},
	{3, 0, 0.20481737692309e-7},
	{3, 1, 0.43870667284435e-6},
	{3, 3, -0.32277677238570e-4},
	{3, 6, -0.15033924542148e-2},
	{3, 35, -0.40668253562649e-1},
	{4, 1, -0.78847309559367e-9},
	{4, 2, 0.12790717852285e-7},
	{4, 3, 0.48225372718507e-6},
	{5, 7, 0.22922076337661e-5},
	{6, 3, -0.16714766451061e-10},
	{6, 16, -0.21171472321355e-2},
	{6, 35, -0.23895741934104e2},
	{7, 0, -0.59059564324270e-17},
	{7, 11, -0.12621808899101e-5},
	{7, 25, -0.38946842435739e-1},
	{8, 8, 0.11256211360459e-10},
	{8, 36, -0.82311340897998e1},
	{9, 13, 0.19809712802088e-7},
	{10, 4, 0.10406965210174e-18},
	{10, 10, -0.10234747095929e-12},
	{10, 14, -0.10018179379511e-8},
	{16, 29, -0.80882908646985e-10},
	{16, 50, 0.10693031879409},
	{18, 57, -0.33662250574171},
	{20, 20, 0.89185845355421e-24},
	{20, 35, 0.30629316876232e-12},
	{20, 48, -0.42002467698208e-5},
	{21, 21, -0.59056029685639e-25},
	{22, 53, 0.37826947613457e-5},
	{23, 39, -0.12768608934681e-14},
	{24, 26, 0.73087610595061e-28},
	{24, 40, 0.55414715350778e-16},
	{24, 58, -0.94369707241210e-6},
}

// region2 returns the properties of superheated water vapour.
func region2(t, p float64) props {
	pi := p / 1e6
	tau := 540 / t

	g0 := math.Log(pi)
	var g0t, g0tt float64
	for _, c := range region2Ideal {
		j := float64(c.j)
		g0 += c.n * math.Pow(tau, j)
		g0t += c.n * j * math.Pow(tau, j-1)
		g0tt += c.n * j * (j - 1) * math.Pow(tau, j-2)
	}
	g0p := 1 / pi

	b := tau - 0.5
	var gr, grp, grpp, grt, grtt, grpt float64
	for _, c := range region2Residual {
		i, j := float64(c.i), float64(c.j)
		pii, bj := math.Pow(pi, i), math.Pow(b, j)
		gr += c.n * pii * bj
		grp += c.n * i * math.Pow(pi, i-1) * bj
		grpp += c.n * i * (i - 1) * math.Pow(pi, i-2) * bj
		grt += c.n * pii * j * math.Pow(b, j-1)
		grtt += c.n * pii * j * (j - 1) * math.Pow(b, j-2)
		grpt += c.n * i * math.Pow(pi, i-1) * j * math.Pow(b, j-1)
	}

	rt := rWater * t
	x := 1 + pi*grp - tau*pi*grpt
	return props{
		v:  pi * (g0p + grp) * rt / p,
		h:  tau * (g0t + grt) * rt,
		s:  (tau*(g0t+grt) - (g0 + gr)) * rWater,
		cp: -tau * tau * (g0tt + grtt) * rWater,
		cv: (-tau*tau*(g0tt+grtt) - x*x/(1-pi*pi*grpp)) * rWater,
	}
}

var region4 = [10]float64{
	0.11670521452767e4,
	-0.72421316703206e6,
	-0.17073846940092e2,
	0.12020824702470e5,
	-0.32325550322333e7,
	0.14915108613530e2,
	-0.48232657361591e4,
	0.40511340542057e6,
	-0.23855557567849,
	0.65017534844798e3,
}

// satPressure returns the saturation pressure of water at temperature t, valid
// from 273.15 K to the critical temperature.
func satPressure(t float64) float64 {
	n := region4
	theta := t + n[8]/(t-n[9])
	a := theta*theta + n[0]*theta + n[1]
	b := n[2]*theta*theta + n[3]*theta + n[4]
	c := n[5]*theta*theta + n[6]*theta + n[7]
	x := 2 * c / (-b + math.Sqrt(b*b-4*a*c))
	return x * x * x * x * 1e6
}

// satTemperature returns the saturation temperature of water at pressure p,
// valid from 611.213 Pa to the critical pressure.
func satTemperature(p float64) float64 {
	n := region4
	beta := math.Pow(p/1e6, 0.25)
	e := beta*beta + n[2]*beta + n[5]
	f := n[0]*beta*beta + n[3]*beta + n[6]
	g := n[1]*beta*beta + n[4]*beta + n[7]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n[9] + d - math.Sqrt((n[9]+d)*(n[9]+d)-4*(n[8]+n[9]*d))) / 2
}

// b23Pressure returns the pressure on the boundary between regions 2 and 3 at
// temperature t.
func b23Pressure(t float64) float64 {
	return (0.34805185628969e3 - 0.11671859879975e1*t + 0.10192970039326e-2*t*t) * 1e6
}

// b23Temperature returns the temperature on the boundary between regions 2 and
// 3 at pressure p.
func b23Temperature(p float64) float64 {
	return 0.57254459862746e3 + math.Sqrt((p/1e6-0.13918839778870e2)/0.10192970039326e-2)
}
