package exec

import (
	"encoding/binary"
	"math"
)

func putInt32(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) }

func getInt32(src []byte) int32 { return int32(binary.LittleEndian.Uint32(src)) }

func putFloat32(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, math.Float32bits(v)) }

func getFloat32(src []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(src)) }
