// Package clients provides an HTTP client for the reconstruction service.
//
//	client := clients.NewReconstructClient("http://127.0.0.1:8080")
//	resp, err := client.Reconstruct(payload)
//	var apiErr *clients.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
//	    // no consistent polynomial
//	}
package clients
