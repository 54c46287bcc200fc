package businessflow

import "strconv"

// ClientMetadata identifies the caller of a flow for log lines
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetEndpoint records the route that invoked the flow
func (cm *ClientMetadata) SetEndpoint(endpoint string) {
	cm.Endpoint = endpoint
}

func (cm *ClientMetadata) String() string {
	if cm == nil {
		return "ip=- rid=-"
	}
	s := "ip=" + cm.IPAddress + " rid=" + cm.RequestID
	if cm.Endpoint != "" {
		s += " endpoint=" + strconv.Quote(cm.Endpoint)
	}
	return s
}
