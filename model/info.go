package model

import (
	"bytes"
	"encoding/binary"
)

// TimeVal is the record written by get_time.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

// TaskInfo is the record written by task_info.
type TaskInfo struct {
	Status       uint64
	SyscallTimes [MaxSyscallNum]uint32
	// Time is the number of milliseconds since boot.
	Time uint64
}

// Sizes of the records as laid out in user memory.
var (
	TimeValSize  = binary.Size(TimeVal{})
	TaskInfoSize = binary.Size(TaskInfo{})
)

// Encode returns the little-endian user memory image of v.
func Encode(v interface{}) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Decode reads a little-endian user memory image into v.
func Decode(data []byte, v interface{}) error {
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, v)
}

// SizeOf returns the user memory size of v.
func SizeOf(v interface{}) int {
	return binary.Size(v)
}
