package tinybasic

//
// The emulated memory behind the USR read and write routines.
// The 64K address space is carved into 64 byte blocks that are
// allocated the first time anything touches them, on reads as
// well as writes, so an untouched block reads back as zeros
// without costing 64K up front
//

type Memory struct {
	blocks map[int][]byte
}

func NewMemory() *Memory {
	return &Memory{blocks: make(map[int][]byte)}
}

func (m *Memory) block(address int) []byte {
	index := address / memoryBlockSize
	b, ok := m.blocks[index]
	if !ok {
		b = make([]byte, memoryBlockSize)
		m.blocks[index] = b
	}
	return b
}

// WriteMemory stores a byte and returns the value written.
func (m *Memory) WriteMemory(address, value int) int {
	b := m.block(address)
	b[address%memoryBlockSize] = byte(value)
	return value
}

func (m *Memory) ReadMemory(address int) int {
	return int(m.block(address)[address%memoryBlockSize])
}
