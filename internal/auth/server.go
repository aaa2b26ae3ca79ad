package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const callbackPage = `<html>
<head><title>lawcheck</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>Signed in</h1>
	<p>You can close this tab and return to the terminal.</p>
	<script>window.close();</script>
</body>
</html>`

// waitForCallback runs a localhost HTTP server until the OAuth
// redirect delivers an authorization code for the expected state, the
// provider reports an error, or ctx expires.
func waitForCallback(ctx context.Context, expectedState string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth-callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != expectedState {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback state mismatch")
			return
		}
		if errStr := q.Get("error"); errStr != "" {
			http.Error(w, "sign-in failed: "+errStr, http.StatusBadRequest)
			errCh <- fmt.Errorf("provider returned error: %s", errStr)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "no authorization code", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback carried no authorization code")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(callbackPage))
		codeCh <- code
	})

	server := &http.Server{Addr: callbackPort, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case code := <-codeCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return code, nil
	case err := <-errCh:
		_ = server.Close()
		return "", err
	case <-ctx.Done():
		_ = server.Close()
		return "", ctx.Err()
	}
}
