// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

// _DEFAULTBUCKETCAP is the default number of slots per bucket in the
// node arena (§4.1). Chosen, like the teacher's node table defaults,
// to be large enough that small examples never need to grow past a
// single bucket.
const _DEFAULTBUCKETCAP = 1024

// _MAXPROBE is the maximum number of slots probed within one bucket
// before moving on to the next bucket or allocating a fresh one.
const _MAXPROBE = 8

// configs stores the values of the parameters shared by SFDD and MFDD
// factories.
type configs struct {
	bucketCap int // number of slots per bucket
}

func makeconfigs() configs {
	return configs{bucketCap: _DEFAULTBUCKETCAP}
}

// Option configures a Factory or MapFactory at construction time.
type Option func(*configs)

// BucketCapacity sets the number of slots per bucket in the node
// arena. The default is 1024. Values below 8 are ignored since they
// would leave no room for quadratic probing.
func BucketCapacity(size int) Option {
	return func(c *configs) {
		if size >= _MAXPROBE {
			c.bucketCap = size
		}
	}
}
