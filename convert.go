package ndicast

// Converters that repack planar YUV sources into the packed 4:2:2 UYVY
// layout the sender expects. All three operate on the half-open row range
// [startY, endY) and write min(srcStride[0], dstStride) luma samples per
// row, four output bytes (U Y V Y) per two-pixel group. The caller owns
// bounds: dst must hold at least endY*dstStride bytes.

// convertNV12ToUYVY converts a two-plane 4:2:0 frame (Y plane + interleaved
// UV plane). Chroma rows are read at half vertical resolution.
func convertNV12ToUYVY(src [][]byte, srcStride []int, startY, endY int, dst []byte, dstStride int) {
	width := min(srcStride[0], dstStride)
	for y := startY; y < endY; y++ {
		yRow := src[0][y*srcStride[0]:]
		cRow := src[1][(y/2)*srcStride[1]:]
		out := dst[y*dstStride:]

		di, yi, ci := 0, 0, 0
		for x := 0; x < width; x += 2 {
			out[di] = cRow[ci]     // U
			out[di+1] = yRow[yi]   // Y0
			out[di+2] = cRow[ci+1] // V
			out[di+3] = yRow[yi+1] // Y1
			di += 4
			yi += 2
			ci += 2
		}
	}
}

// convertI420ToUYVY converts a three-plane 4:2:0 frame. Same subsampling as
// NV12 but each chroma plane holds only its own channel, so samples are
// consumed sequentially.
func convertI420ToUYVY(src [][]byte, srcStride []int, startY, endY int, dst []byte, dstStride int) {
	width := min(srcStride[0], dstStride)
	for y := startY; y < endY; y++ {
		yRow := src[0][y*srcStride[0]:]
		uRow := src[1][(y/2)*srcStride[1]:]
		vRow := src[2][(y/2)*srcStride[2]:]
		out := dst[y*dstStride:]

		di, yi, ci := 0, 0, 0
		for x := 0; x < width; x += 2 {
			out[di] = uRow[ci]
			out[di+1] = yRow[yi]
			out[di+2] = vRow[ci]
			out[di+3] = yRow[yi+1]
			di += 4
			yi += 2
			ci++
		}
	}
}

// convertI444ToUYVY converts a three-plane 4:4:4 frame, downsampling chroma
// to 4:2:2 on the fly. Quality loss here: every other horizontal chroma
// sample is ignored.
func convertI444ToUYVY(src [][]byte, srcStride []int, startY, endY int, dst []byte, dstStride int) {
	width := min(srcStride[0], dstStride)
	for y := startY; y < endY; y++ {
		yRow := src[0][y*srcStride[0]:]
		uRow := src[1][y*srcStride[1]:]
		vRow := src[2][y*srcStride[2]:]
		out := dst[y*dstStride:]

		di, yi, ci := 0, 0, 0
		for x := 0; x < width; x += 2 {
			out[di] = uRow[ci]
			out[di+1] = yRow[yi]
			out[di+2] = vRow[ci]
			out[di+3] = yRow[yi+1]
			di += 4
			yi += 2
			ci += 2
		}
	}
}
