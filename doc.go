// Package cbn is a client for the shared "Colour by Numbers" LED matrix
// service.
//
// Changing the matrix is a two step protocol. A client first requests the
// device lock and, when granted, submits the ten position colour state
// authenticated by the lock token:
//
//	client, err := cbn.New(cbn.DefaultBaseURL)
//	if err != nil {
//		return err
//	}
//	l, err := client.Acquire(ctx)
//	if errors.IsBusy(err) {
//		// somebody else is painting, try again later
//	}
//	if err != nil {
//		return err
//	}
//	err = client.Submit(ctx, l, colour.Uniform(colour.Red))
//
// Every failure is an *errors.Status whose Code tells busy, protocol
// violations, unknown status codes, malformed bodies, rejected submissions,
// transport failures and timeouts apart. Its Op names the step that failed.
//
// Locks are never released by the client; the service expires them after
// the advisory max duration it reports.
package cbn
