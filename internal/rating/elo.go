package rating

import "math"

// Expected is the Elo expected score of r against opp.
func Expected(r, opp int) float64 {
	return 1 / (1 + math.Pow(10, float64(opp-r)/400))
}

// Elo returns r's new rating after scoring score (1 win, 0.5 draw, 0 loss)
// against opp with factor k.
func Elo(r, opp int, score float64, k int) int {
	return int(math.Round(float64(r) + float64(k)*(score-Expected(r, opp))))
}
