package apu

// Length counter lookup table
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 8, 48, 6, 96, 4,
	192, 2, 72, 16, 28, 32, 52, 2,
}

// Duty cycle lookup table (8 steps each)
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 75%
}

// Triangle wave sequence (32 steps)
var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Noise period table (NTSC)
var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// DMC rate table (NTSC)
var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

// pulseTable and tndTable are the NES's precomputed non-linear mixer
// lookup tables: pulse_table[n] = 95.52 / (8128/n + 100) for the summed
// pulse1+pulse2 output (0-30), and tnd_table[n] = 163.67 / (24329/n + 100)
// for the combined 3*triangle + 2*noise + dmc output (0-202). Building
// these once at init avoids the floating-point divide on every sample and
// keeps the final mix in the hardware-accurate [0.0, 1.0] range.
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for i := 1; i < len(pulseTable); i++ {
		pulseTable[i] = float32(95.52 / (8128.0/float64(i) + 100.0))
	}
	for i := 1; i < len(tndTable); i++ {
		tndTable[i] = float32(163.67 / (24329.0/float64(i) + 100.0))
	}
}
