package persistence

// Bucket names used by the camp state. Each bucket holds one JSON document.
const (
	BucketEvents      = "campshare-events"
	BucketMaintenance = "campshare-maintenance"
	BucketCleaning    = "campshare-cleaning"
	BucketUsers       = "campshare-users"
	BucketCurrentUser = "campshare-current-user"
)

// Buckets lists every bucket in load order.
func Buckets() []string {
	return []string{BucketEvents, BucketMaintenance, BucketCleaning, BucketUsers, BucketCurrentUser}
}
