package nmea

import "math"

func float32NaN() float32 { return float32(math.NaN()) }

func float32Inf(sign int) float32 { return float32(math.Inf(sign)) }
