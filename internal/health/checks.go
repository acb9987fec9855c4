package health

import (
	"github.com/clonder/varys/internal/recognise"
	"github.com/clonder/varys/internal/store"
)

// StoreChecker returns a Checker that reports "store" readiness by pinging
// the session store's connection pool.
func StoreChecker(s *store.Store) Checker {
	return Checker{Name: "store", Check: s.Ping}
}

// RecogniserChecker returns a Checker that reports "recogniser" readiness by
// verifying the whisper.cpp model is loaded.
func RecogniserChecker(r *recognise.Recogniser) Checker {
	return Checker{Name: "recogniser", Check: r.Ready}
}
