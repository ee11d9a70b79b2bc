package model

type LineAdded struct {
	CartKey  string
	Line     LineKey
	Quantity int
	Merged   bool
}

func (e LineAdded) Type() string { return "CartLineAdded" }

type LineRemoved struct {
	CartKey string
	Line    LineKey
}

func (e LineRemoved) Type() string { return "CartLineRemoved" }

type CartCleared struct {
	CartKey string
}

func (e CartCleared) Type() string { return "CartCleared" }
