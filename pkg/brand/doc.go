// Package brand is the entry point for brandsync consumers.
//
// A Service is constructed explicitly for one base directory and owns every
// long-lived piece: the state cache, the foreground dispatcher, the mutation
// gate shared by all copies, and the optional change subscription. Close
// releases them all.
//
//	svc, err := brand.New(brand.Options{BaseDir: base, FS: filesystem.NewOS()})
//	ctx, err := svc.Resolve(path)
//	for _, ind := range svc.Indicators(ctx) { ... }
//	err = svc.CopyPath(context.Background(), path, "app-react-red-theme", onDone)
package brand
