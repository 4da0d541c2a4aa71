package domain

// CommunityID names a logical chat room. It is issued by the community
// management side of the platform and treated as opaque here.
type CommunityID string
