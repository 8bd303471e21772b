package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the device
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DeviceIDHeaderName carries the client's device id on unauthenticated
// calls such as Ping, for logging only.
const DeviceIDHeaderName = "device_id"
