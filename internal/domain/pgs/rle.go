package pgs

// DecodeRLE expands run-length encoded object data into rows of palette
// indices. The scheme is byte oriented:
//
//	CC                   one pixel of index CC (CC != 0)
//	00 00                end of row
//	00 LL                LL pixels of index 0 (LL < 0x40)
//	00 4L LL             big run of index 0
//	00 8L CC             short run of index CC
//	00 CL LL CC          big run of index CC
//
// An escape that would read past the end of data stops decoding at the last
// fully consumed byte; partial output is kept. A final row not closed by
// 00 00 is still emitted. Row count and lengths are not reconciled against
// the object's declared bounds here; see Materialize.
func DecodeRLE(data []byte) [][]uint8 {
	var rows [][]uint8
	var row []uint8

	i := 0
loop:
	for i < len(data) {
		b := data[i]
		if b != 0 {
			row = append(row, b)
			i++
			continue
		}
		if i+1 >= len(data) {
			break
		}
		n := data[i+1]
		switch {
		case n == 0:
			rows = append(rows, row)
			row = nil
			i += 2
		case n < 0x40:
			row = appendRun(row, 0, int(n))
			i += 2
		case n < 0x80:
			if i+2 >= len(data) {
				break loop
			}
			row = appendRun(row, 0, int(n-0x40)<<8|int(data[i+2]))
			i += 3
		case n < 0xC0:
			if i+2 >= len(data) {
				break loop
			}
			row = appendRun(row, data[i+2], int(n-0x80))
			i += 3
		default:
			if i+3 >= len(data) {
				break loop
			}
			row = appendRun(row, data[i+3], int(n-0xC0)<<8|int(data[i+2]))
			i += 4
		}
	}

	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func appendRun(row []uint8, value uint8, count int) []uint8 {
	for ; count > 0; count-- {
		row = append(row, value)
	}
	return row
}
