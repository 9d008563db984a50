package management

import (
	"encoding/xml"
	"strings"
)

type OperationHandle string

type Slot string

const (
	SlotStaging    Slot = "staging"
	SlotProduction Slot = "production"
)

// ParseSlot accepts "stage" as an alias for the staging slot.
func ParseSlot(s string) (Slot, bool) {
	switch strings.ToLower(s) {
	case "stage", "staging":
		return SlotStaging, true
	case "production", "":
		return SlotProduction, true
	}
	return "", false
}

func (s Slot) Matches(other string) bool {
	return strings.EqualFold(string(s), other)
}

type OperationStatus string

const (
	OperationInProgress OperationStatus = "InProgress"
	OperationSucceeded  OperationStatus = "Succeeded"
	OperationFailed     OperationStatus = "Failed"
)

type InstanceStatus string

const (
	RoleStateUnknown   InstanceStatus = "RoleStateUnknown"
	CreatingVM         InstanceStatus = "CreatingVM"
	StartingVM         InstanceStatus = "StartingVM"
	CreatingRole       InstanceStatus = "CreatingRole"
	StartingRole       InstanceStatus = "StartingRole"
	ReadyRole          InstanceStatus = "ReadyRole"
	BusyRole           InstanceStatus = "BusyRole"
	StoppingRole       InstanceStatus = "StoppingRole"
	StoppingVM         InstanceStatus = "StoppingVM"
	DeletingVM         InstanceStatus = "DeletingVM"
	StoppedVM          InstanceStatus = "StoppedVM"
	RestartingRole     InstanceStatus = "RestartingRole"
	CyclingRole        InstanceStatus = "CyclingRole"
	FailedStartingRole InstanceStatus = "FailedStartingRole"
	FailedStartingVM   InstanceStatus = "FailedStartingVM"
	UnresponsiveRole   InstanceStatus = "UnresponsiveRole"
)

type HostedService struct {
	ServiceName string `xml:"ServiceName"`
	URL         string `xml:"Url"`
}

type hostedServiceList struct {
	HostedServices []HostedService `xml:"HostedService"`
}

type HostedServiceProperties struct {
	Label    string `xml:"Label"`
	Location string `xml:"Location"`
}

type HostedServiceDetail struct {
	ServiceName string                  `xml:"ServiceName"`
	Properties  HostedServiceProperties `xml:"HostedServiceProperties"`
	Deployments []Deployment            `xml:"Deployments>Deployment"`
}

// DeploymentsInSlot returns the deployments running in the given slot, in the
// order the platform reported them.
func (d *HostedServiceDetail) DeploymentsInSlot(slot Slot) []Deployment {
	deployments := make([]Deployment, 0, len(d.Deployments))
	for _, deployment := range d.Deployments {
		if slot.Matches(deployment.Slot) {
			deployments = append(deployments, deployment)
		}
	}
	return deployments
}

type RoleInstance struct {
	RoleName       string         `xml:"RoleName"`
	InstanceName   string         `xml:"InstanceName"`
	InstanceStatus InstanceStatus `xml:"InstanceStatus"`
}

type Deployment struct {
	Name          string         `xml:"Name"`
	Slot          string         `xml:"DeploymentSlot"`
	Status        string         `xml:"Status"`
	Label         string         `xml:"Label"`
	URL           string         `xml:"Url"`
	Configuration string         `xml:"Configuration"`
	RoleInstances []RoleInstance `xml:"RoleInstanceList>RoleInstance"`
}

type Operation struct {
	ID             string          `xml:"ID"`
	Status         OperationStatus `xml:"Status"`
	HTTPStatusCode int             `xml:"HttpStatusCode"`
	Error          *ErrorDetail    `xml:"Error"`
}

type ErrorDetail struct {
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

type StorageService struct {
	ServiceName string `xml:"ServiceName"`
	URL         string `xml:"Url"`
}

type storageServiceList struct {
	StorageServices []StorageService `xml:"StorageService"`
}

type StorageKeys struct {
	Primary   string `xml:"StorageServiceKeys>Primary"`
	Secondary string `xml:"StorageServiceKeys>Secondary"`
}

type locationList struct {
	Locations []struct {
		Name string `xml:"Name"`
	} `xml:"Location"`
}

type CreateDeploymentInput struct {
	XMLName              xml.Name `xml:"http://schemas.microsoft.com/windowsazure CreateDeployment"`
	Name                 string   `xml:"Name"`
	PackageURL           string   `xml:"PackageUrl"`
	Label                string   `xml:"Label"`
	Configuration        string   `xml:"Configuration"`
	StartDeployment      bool     `xml:"StartDeployment"`
	TreatWarningsAsError bool     `xml:"TreatWarningsAsError"`
}

type UpgradeDeploymentInput struct {
	XMLName       xml.Name `xml:"http://schemas.microsoft.com/windowsazure UpgradeDeployment"`
	Mode          string   `xml:"Mode"`
	PackageURL    string   `xml:"PackageUrl"`
	Configuration string   `xml:"Configuration"`
	Label         string   `xml:"Label"`
}

type ChangeConfigurationInput struct {
	XMLName              xml.Name `xml:"http://schemas.microsoft.com/windowsazure ChangeConfiguration"`
	Configuration        string   `xml:"Configuration"`
	TreatWarningsAsError bool     `xml:"TreatWarningsAsError"`
	Mode                 string   `xml:"Mode"`
}

type CreateHostedServiceInput struct {
	XMLName     xml.Name `xml:"http://schemas.microsoft.com/windowsazure CreateHostedService"`
	ServiceName string   `xml:"ServiceName"`
	Label       string   `xml:"Label"`
	Location    string   `xml:"Location"`
}

type CertificateFile struct {
	XMLName           xml.Name `xml:"http://schemas.microsoft.com/windowsazure CertificateFile"`
	Data              string   `xml:"Data"`
	CertificateFormat string   `xml:"CertificateFormat"`
	Password          string   `xml:"Password"`
}

type CreateStorageServiceInput struct {
	XMLName     xml.Name `xml:"http://schemas.microsoft.com/windowsazure CreateStorageServiceInput"`
	ServiceName string   `xml:"ServiceName"`
	Description string   `xml:"Description"`
	Label       string   `xml:"Label"`
	Location    string   `xml:"Location"`
}
