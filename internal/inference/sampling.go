package inference

// UniformIndices returns n frame indices evenly spaced over [0, total-1],
// truncated toward zero. Short videos yield repeated indices.
func UniformIndices(total, n int) []int {
	if total <= 0 || n <= 0 {
		return nil
	}
	idx := make([]int, n)
	if n == 1 {
		return idx
	}
	step := float64(total-1) / float64(n-1)
	for i := range idx {
		idx[i] = int(float64(i) * step)
	}
	idx[n-1] = total - 1
	return idx
}

// PadFrames repeats the last frame until n frames are present and drops
// anything beyond n. An empty input stays empty.
func PadFrames(frames [][]float32, n int) [][]float32 {
	if len(frames) == 0 {
		return frames
	}
	out := make([][]float32, 0, n)
	out = append(out, frames...)
	for len(out) < n {
		out = append(out, out[len(out)-1])
	}
	return out[:n]
}
