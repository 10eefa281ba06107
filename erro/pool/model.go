package pool

import (
	"sync/atomic"

	libatm "github.com/nabbar/thttpd-core/atomic"
	"github.com/nabbar/thttpd-core/erro"
)

type mod struct {
	s *atomic.Uint64
	l libatm.MapTyped[uint64, error]
}

func (o *mod) Add(e ...error) {
	for _, err := range e {
		if err != nil {
			idx := o.s.Add(1)
			o.l.Store(idx, err)
		}
	}
}

func (o *mod) Get(i uint64) error {
	if e, l := o.l.Load(i); !l || e == nil {
		return nil
	} else {
		return e
	}
}

func (o *mod) Set(i uint64, e error) {
	if e != nil {
		o.l.Store(i, e)
	}
}

func (o *mod) Del(i uint64) {
	o.l.Delete(i)
}

func (o *mod) Error() error {
	return erro.UnknownError.IfError(o.Slice()...)
}

func (o *mod) Slice() []error {
	e := make([]error, 0)
	o.l.Range(func(_ uint64, err error) bool {
		e = append(e, err)
		return true
	})
	return e
}

func (o *mod) Len() uint64 {
	var i uint64
	o.l.Range(func(_ uint64, err error) bool {
		if err != nil {
			i++
		}
		return true
	})
	return i
}

func (o *mod) MaxId() uint64 {
	var i uint64
	o.l.Range(func(k uint64, err error) bool {
		if err != nil && k > i {
			i = k
		}
		return true
	})
	return i
}

func (o *mod) Last() error {
	return o.Get(o.MaxId())
}

func (o *mod) Clear() {
	o.l.Range(func(k uint64, _ error) bool {
		o.l.Delete(k)
		return true
	})
}
