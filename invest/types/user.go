package types

// UserAccount 经纪账户
type UserAccount struct {
	BrokerAccountType BrokerAccountType `json:"brokerAccountType"`
	BrokerAccountID   string            `json:"brokerAccountId"`
}

// UserAccounts 用户的所有经纪账户
type UserAccounts struct {
	Accounts []UserAccount `json:"accounts"`
}
