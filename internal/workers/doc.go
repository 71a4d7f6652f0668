/*
Package workers sizes and runs small worker pools in containerized
environments.

runtime.NumCPU reports the host's CPUs, while GOMAXPROCS follows the
container's CPU limit. [Count] and its helpers start from GOMAXPROCS so a
pod limited to 2 cores on a 64-core node runs 2 workers, not 64.

	n := workers.ForCPU(os.Getenv("LANECTL_WORKERS"), 16)
	err := workers.Each(ctx, n, len(projects), func(ctx context.Context, i int) error {
	    return check(ctx, projects[i])
	})

[Each] hands indices to the pool and joins every error it sees, so a
consistency check reports all bad projects instead of only the first.
*/
package workers
