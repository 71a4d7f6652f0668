// Package memory configures the Go runtime memory limit for containerized
// deployments.
//
// GOMAXPROCS follows cgroup CPU limits automatically; GOMEMLIMIT does not.
// [ConfigureFromEnv] derives it from the container limit so the editor's
// SQLite cache and drag-session goroutines stay under the pod's budget:
//
//	func main() {
//	    memory.ConfigureFromEnv(os.Getenv)
//	    // ...
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable; when set it takes precedence.
//   - MEMORY_LIMIT: container memory limit in bytes, typically from the
//     Kubernetes Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the heap, in (0, 1].
//     Defaults to [DefaultMemoryRatio].
package memory
