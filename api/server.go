package api

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/petiibhuzah/cryptocurrency/blockchain"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:00
 */

// Server is the sole caller-facing boundary of a node process (spec §6): a
// thin HTTP+JSON facade over a Ledger, holding no state of its own beyond
// what it needs to answer a request.
type Server struct {
	ledger *blockchain.Ledger
	log    *logrus.Entry
	addr   string
}

// NewServer builds a Server bound to ledger, serving on addr (e.g. ":8000").
func NewServer(ledger *blockchain.Ledger, log *logrus.Entry, addr string) *Server {
	return &Server{ledger: ledger, log: log, addr: addr}
}

// corsMiddleware adds the cross-origin headers every response must carry
// and answers OPTIONS preflight requests directly, mirroring the CORS
// behavior of original_source/src/app.py (SPEC_FULL.md §6).
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// mux builds the full route table. Built by a method rather than a
// package-level http.HandleFunc registration (unlike the teacher-adjacent
// Roasted12 server) so multiple Servers (e.g. under test) never collide on
// the default ServeMux.
func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet/generate", corsMiddleware(s.handleWalletGenerate))
	mux.HandleFunc("/transaction/prepare", corsMiddleware(s.handleTransactionPrepare))
	mux.HandleFunc("/transaction/add", corsMiddleware(s.handleTransactionAdd))
	mux.HandleFunc("/transaction/get_mempool", corsMiddleware(s.handleMempool))
	mux.HandleFunc("/block/mine", corsMiddleware(s.handleMine))
	mux.HandleFunc("/chain/get", corsMiddleware(s.handleChainGet))
	mux.HandleFunc("/chain/validate", corsMiddleware(s.handleChainValidate))
	mux.HandleFunc("/wallet/balance/", corsMiddleware(s.handleBalance))
	mux.HandleFunc("/node/connect", corsMiddleware(s.handleNodeConnect))
	mux.HandleFunc("/node/sync", corsMiddleware(s.handleNodeSync))
	return mux
}

// ListenAndServe blocks serving the route table on s.addr.
func (s *Server) ListenAndServe() error {
	s.log.WithField("addr", s.addr).Info("api server listening")
	return http.ListenAndServe(s.addr, s.mux())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a core error to a status code by switching on its Kind,
// never by matching message text (spec §7). A plain error with no Kind is
// treated as an InternalError.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ledgerErr *blockchain.LedgerError
	if errors.As(err, &ledgerErr) {
		status := http.StatusInternalServerError
		switch ledgerErr.Kind {
		case blockchain.ValidationError, blockchain.NotFoundError, blockchain.CryptoError:
			status = http.StatusBadRequest
		case blockchain.InternalError:
			s.log.WithError(pkgerrors.WithStack(err)).Error("internal error")
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: ledgerErr.Message})
		return
	}
	s.log.WithError(pkgerrors.WithStack(err)).Error("unclassified error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
