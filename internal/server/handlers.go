package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type newUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userOut struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type statementRequest struct {
	SQL    string       `json:"sql"`
	Params []core.Value `json:"params"`
}

type executeOut struct {
	RowsAffected uint64 `json:"rows_affected"`
}

// placeholders returns n positional placeholders in the target's style.
func (s *Server) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.db.DriverName() == "pgx" {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.Migrate(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, envelope{Error: err.Error()})
		return
	}
	for _, stmt := range []string{"DELETE FROM users", "DELETE FROM accounts"} {
		if _, err := s.db.Execute(ctx, stmt, nil); err != nil {
			writeError(w, err)
			return
		}
	}
	writeData(w, nil)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var nu newUser
	if err := decodeBody(w, r, &nu); err != nil {
		writeError(w, err)
		return
	}
	if nu.Name == "" || nu.Email == "" {
		writeError(w, errors.New("name and email are required"))
		return
	}

	ph := s.placeholders(2)
	_, err := s.db.Execute(r.Context(),
		"INSERT INTO users (name, email) VALUES ("+ph[0]+", "+ph[1]+")",
		[]core.Value{core.Text(nu.Name), core.Text(nu.Email)})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	res, err := s.db.Query(r.Context(), "SELECT id, name, email FROM users ORDER BY id", nil)
	if err != nil {
		writeError(w, err)
		return
	}

	users := make([]userOut, 0, len(res.Rows))
	for _, row := range res.Rows {
		var u userOut
		if v, ok := row.Get("id"); ok {
			u.ID, _ = v.AsInt64()
		}
		if v, ok := row.Get("name"); ok {
			u.Name, _ = v.AsText()
		}
		if v, ok := row.Get("email"); ok {
			u.Email, _ = v.AsText()
		}
		users = append(users, u)
	}
	writeData(w, users)
}

// handleTransfer seeds two accounts, moves 50 between them inside a
// transaction and either commits or rolls back. It responds with both
// balances.
func (s *Server) handleTransfer(commit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balances, err := s.transfer(r.Context(), commit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, balances)
	}
}

func (s *Server) transfer(ctx context.Context, commit bool) ([]int64, error) {
	if _, err := s.db.Execute(ctx, "DELETE FROM accounts", nil); err != nil {
		return nil, err
	}
	if _, err := s.db.Execute(ctx, "INSERT INTO accounts (id, balance) VALUES (1, 100), (2, 200)", nil); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}

	ph := s.placeholders(2)
	for _, move := range []struct {
		op string
		id int64
	}{{"-", 1}, {"+", 2}} {
		stmt := "UPDATE accounts SET balance = balance " + move.op + " " + ph[0] + " WHERE id = " + ph[1]
		if _, err := tx.Execute(ctx, stmt, []core.Value{core.Int64(50), core.Int64(move.id)}); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}

	if commit {
		err = tx.Commit(ctx)
	} else {
		err = tx.Rollback(ctx)
	}
	if err != nil {
		return nil, err
	}

	res, err := s.db.Query(ctx, "SELECT balance FROM accounts ORDER BY id", nil)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(res.Rows))
	for _, row := range res.Rows {
		v, _ := row.Get("balance")
		n, _ := v.AsInt64()
		out = append(out, n)
	}
	return out, nil
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req statementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.db.Query(r.Context(), req.SQL, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Rows == nil {
		res.Rows = []core.Row{}
	}
	writeData(w, res)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req statementRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := s.db.Execute(r.Context(), req.SQL, req.Params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, executeOut{RowsAffected: n})
}
