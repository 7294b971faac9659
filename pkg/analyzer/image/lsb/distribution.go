package lsb

import (
	"errors"
	"math"

	"StegoTool/pkg/stego"
)

// ChannelStats holds LSB counts for one channel
type ChannelStats struct {
	Zeros       int     `json:"zeros"`
	Ones        int     `json:"ones"`
	ZeroPercent float64 `json:"zeroPercent"`
	OnePercent  float64 `json:"onePercent"`
	Entropy     float64 `json:"entropy"`
}

// Distribution represents the LSB distribution of a pixel buffer, overall and per channel
type Distribution struct {
	Overall  ChannelStats            `json:"overall"`
	Channels map[string]ChannelStats `json:"channels"`
}

// AnalyzeDistribution counts zero and one LSBs across every channel of buf
func AnalyzeDistribution(buf *stego.PixelBuffer) (*Distribution, error) {
	if buf == nil {
		return nil, errors.New("nil pixel buffer provided")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	names := channelNames(buf.Channels)
	ones := make([]int, buf.Channels)
	totals := make([]int, buf.Channels)

	for i, s := range buf.Pix {
		c := i % buf.Channels
		totals[c]++
		ones[c] += int(s & 1)
	}

	dist := &Distribution{Channels: make(map[string]ChannelStats, buf.Channels)}
	allOnes, allTotal := 0, 0
	for c, name := range names {
		dist.Channels[name] = newChannelStats(totals[c]-ones[c], ones[c])
		allOnes += ones[c]
		allTotal += totals[c]
	}
	dist.Overall = newChannelStats(allTotal-allOnes, allOnes)

	return dist, nil
}

func newChannelStats(zeros, ones int) ChannelStats {
	stats := ChannelStats{Zeros: zeros, Ones: ones}
	if total := zeros + ones; total > 0 {
		stats.ZeroPercent = float64(zeros) / float64(total)
		stats.OnePercent = float64(ones) / float64(total)
		stats.Entropy = calculateEntropy(stats.ZeroPercent, stats.OnePercent)
	}
	return stats
}

// calculateEntropy calculates Shannon entropy from probability distribution
func calculateEntropy(zeroProb, oneProb float64) float64 {
	// Avoid log(0) errors
	if zeroProb <= 0 || oneProb <= 0 {
		return 0
	}

	// Shannon entropy formula: -sum(p_i * log2(p_i))
	return -zeroProb*math.Log2(zeroProb) - oneProb*math.Log2(oneProb)
}

func channelNames(channels int) []string {
	switch channels {
	case 1:
		return []string{"L"}
	case 3:
		return []string{"R", "G", "B"}
	case 4:
		return []string{"R", "G", "B", "A"}
	}
	names := make([]string, channels)
	for i := range names {
		names[i] = "C" + string(rune('0'+i%10))
	}
	return names
}
