package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// platform-user access token on command requests.
const AccessTokenHeaderName = "access_token"

// UsernamePrefix prefixes the platform user id to form the panel username.
const UsernamePrefix = "user_"
