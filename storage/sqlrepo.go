package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-rel/mysql"
	"github.com/go-rel/rel"
	"github.com/go-rel/rel/where"
	_ "github.com/go-sql-driver/mysql"

	dbModel "github.com/atricore/uma-authz/sql"

	"github.com/atricore/uma-authz/model"
)

type SqlRepo struct {
	repo *rel.Repository
}

// GetMySqlRepository connects to the configured mysql instance. The process
// exits when no usable configuration is present, the caller decides
// beforehand if the sql store should be used at all.
func GetMySqlRepository() rel.Repository {
	var err error

	mysqlHost := os.Getenv("MYSQL_HOST")
	if mysqlHost == "" {
		logger.Fatalf("No mysql host configured, mysql repo not available.")
	}
	var mySqlPort int
	mysqlPortEnv := os.Getenv("MYSQL_PORT")
	if mysqlPortEnv != "" {
		mySqlPort, err = strconv.Atoi(mysqlPortEnv)
		if err != nil {
			logger.Fatalf("Invalid mysql port configured: %s", mysqlPortEnv)
		}
	} else {
		mySqlPort = 3306
	}
	mysqlDb := os.Getenv("MYSQL_DATABASE")
	if mysqlDb == "" {
		logger.Fatal("No mysql db configured, mysql repo not available.")
	}
	authEnabled := true

	mysqlUser := os.Getenv("MYSQL_USERNAME")
	mysqlPassword := os.Getenv("MYSQL_PASSWORD")

	if mysqlUser == "" {
		logger.Infof("No user configured for mySql, will try to connect as root.")
		mysqlUser = "root"
	}

	if mysqlPassword == "" {
		logger.Infof("No password configured for mySql, will try to connect without credentials.")
		authEnabled = false
	}

	var connectionString string
	if authEnabled {
		connectionString = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", mysqlUser, mysqlPassword, mysqlHost, mySqlPort, mysqlDb)
	} else {
		connectionString = fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", mysqlUser, mysqlHost, mySqlPort, mysqlDb)
	}

	adapter, err := mysql.Open(connectionString)
	if err != nil {
		logger.Fatalf("Was not able to connect to db: %s:%d/%s as user %s. Err: %v", mysqlHost, mySqlPort, mysqlDb, mysqlUser, err)
	}
	return rel.New(adapter)
}

func NewSqlRepository(repository rel.Repository) *SqlRepo {
	sqlRepo := new(SqlRepo)
	sqlRepo.repo = &repository
	return sqlRepo
}

func (sqlRepo *SqlRepo) GetClient(clientId string, clientSecret string) (model.Client, model.UmaError) {
	var dbClient dbModel.Client
	err := (*sqlRepo.repo).Find(context.TODO(), &dbClient, where.Eq("id", clientId))
	if err != nil {
		logger.Debugf("No such client %s exists. Err: %v", clientId, err)
		return model.Client{}, model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	}
	if clientSecret != "" && dbClient.ClientSecret != clientSecret {
		logger.Debugf("Secret for client %s did not match.", clientId)
		return model.Client{}, model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	}
	return model.Client{ClientId: dbClient.ID, ClientSecret: dbClient.ClientSecret, RedirectUri: dbClient.RedirectUri, ClaimsRedirectUri: dbClient.ClaimsRedirectUri}, model.UmaError{}
}

func (sqlRepo *SqlRepo) GetResourceSet(id string) (model.ResourceSet, model.UmaError) {
	dbResourceSet, umaErr := sqlRepo.getSqlResourceSet(id)
	if umaErr != (model.UmaError{}) {
		return model.ResourceSet{}, umaErr
	}
	return fromSqlResourceSet(dbResourceSet), model.UmaError{}
}

func (sqlRepo *SqlRepo) getSqlResourceSet(id string) (dbModel.ResourceSet, model.UmaError) {
	ctx := context.TODO()

	var dbResourceSet dbModel.ResourceSet
	err := (*sqlRepo.repo).Find(ctx, &dbResourceSet, where.Eq("id", id))
	if err != nil {
		return dbResourceSet, model.NewUmaError(model.InvalidResourceSetRequested, fmt.Sprintf("Resource set %s not found", id))
	}

	var dbPolicies []dbModel.Policy
	err = (*sqlRepo.repo).FindAll(ctx, &dbPolicies, where.Eq("resource_set", id))
	if err != nil {
		return dbResourceSet, model.NewServerError("Was not able to load policies.", err)
	}
	loadedPolicies := []dbModel.Policy{}
	for _, dbPolicy := range dbPolicies {
		var dbClaims []dbModel.ClaimRequirement
		err = (*sqlRepo.repo).FindAll(ctx, &dbClaims, where.Eq("policy", dbPolicy.ID))
		if err != nil {
			return dbResourceSet, model.NewServerError("Was not able to load claim requirements.", err)
		}
		dbPolicy.ClaimsRequired = dbClaims
		loadedPolicies = append(loadedPolicies, dbPolicy)
	}
	dbResourceSet.Policies = loadedPolicies
	return dbResourceSet, model.UmaError{}
}

func (sqlRepo *SqlRepo) SaveResourceSet(resourceSet model.ResourceSet) model.UmaError {
	err := sqlRepo.persistResourceSet(toSqlResourceSet(resourceSet))
	if err != nil {
		return model.NewServerError("Was not able to store resource set.", err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) UpdateResourceSet(resourceSet model.ResourceSet) model.UmaError {
	_, umaErr := sqlRepo.getSqlResourceSet(resourceSet.Id)
	if umaErr != (model.UmaError{}) {
		return umaErr
	}
	err := (*sqlRepo.repo).Transaction(context.TODO(), func(ctx context.Context) error {
		if err := sqlRepo.removeResourceSet(ctx, resourceSet.Id); err != nil {
			return err
		}
		return sqlRepo.persistResourceSet(toSqlResourceSet(resourceSet))
	})
	if err != nil {
		return model.NewServerError("Was not able to update resource set.", err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) DeleteResourceSet(id string) model.UmaError {
	_, umaErr := sqlRepo.getSqlResourceSet(id)
	if umaErr != (model.UmaError{}) {
		return umaErr
	}
	err := (*sqlRepo.repo).Transaction(context.TODO(), func(ctx context.Context) error {
		return sqlRepo.removeResourceSet(ctx, id)
	})
	if err != nil {
		return model.NewServerError(fmt.Sprintf("Was not able to delete resource set %s.", id), err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) removeResourceSet(ctx context.Context, id string) error {
	dbResourceSet, umaErr := sqlRepo.getSqlResourceSet(id)
	if umaErr != (model.UmaError{}) {
		return umaErr
	}
	for _, dbPolicy := range dbResourceSet.Policies {
		for _, dbClaim := range dbPolicy.ClaimsRequired {
			if err := (*sqlRepo.repo).Delete(ctx, &dbClaim); err != nil {
				return err
			}
		}
		if err := (*sqlRepo.repo).Delete(ctx, &dbPolicy); err != nil {
			return err
		}
	}
	return (*sqlRepo.repo).Delete(ctx, &dbResourceSet)
}

func (sqlRepo *SqlRepo) persistResourceSet(dbResourceSet dbModel.ResourceSet) error {
	ctx := context.TODO()

	return (*sqlRepo.repo).Transaction(ctx, func(ctx context.Context) error {
		err := (*sqlRepo.repo).Insert(ctx, &dbResourceSet)
		if err != nil {
			return err
		}
		for _, dbPolicy := range dbResourceSet.Policies {
			err = (*sqlRepo.repo).Update(ctx, &dbPolicy)
			if err != nil {
				return err
			}
			for _, dbClaim := range dbPolicy.ClaimsRequired {
				err = (*sqlRepo.repo).Update(ctx, &dbClaim)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (sqlRepo *SqlRepo) SavePermissionTicket(ticket model.PermissionTicket) model.UmaError {
	err := sqlRepo.persistTicket(toSqlTicket(ticket))
	if err != nil {
		return model.NewServerError("Was not able to store permission ticket.", err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) GetPermissionTicket(uid string) (model.PermissionTicket, model.UmaError) {
	dbTicket, umaErr := sqlRepo.getSqlTicket(uid)
	if umaErr != (model.UmaError{}) {
		return model.PermissionTicket{}, umaErr
	}
	return fromSqlTicket(dbTicket), model.UmaError{}
}

func (sqlRepo *SqlRepo) getSqlTicket(uid string) (dbModel.PermissionTicket, model.UmaError) {
	ctx := context.TODO()

	var dbTicket dbModel.PermissionTicket
	err := (*sqlRepo.repo).Find(ctx, &dbTicket, where.Eq("uid", uid))
	if err != nil {
		return dbTicket, model.NewUmaError(model.InvalidResourceSetRequested, "Permission ticket not found")
	}
	var dbClaims []dbModel.SuppliedClaim
	err = (*sqlRepo.repo).FindAll(ctx, &dbClaims, where.Eq("ticket", uid))
	if err != nil {
		return dbTicket, model.NewServerError("Was not able to load supplied claims.", err)
	}
	dbTicket.ClaimsSupplied = dbClaims
	return dbTicket, model.UmaError{}
}

func (sqlRepo *SqlRepo) UpdatePermissionTicket(ticket model.PermissionTicket) model.UmaError {
	dbTicket, umaErr := sqlRepo.getSqlTicket(ticket.Uid)
	if umaErr != (model.UmaError{}) {
		return umaErr
	}
	err := (*sqlRepo.repo).Transaction(context.TODO(), func(ctx context.Context) error {
		if err := sqlRepo.removeTicket(ctx, dbTicket); err != nil {
			return err
		}
		return sqlRepo.persistTicket(toSqlTicket(ticket))
	})
	if err != nil {
		return model.NewServerError("Was not able to update permission ticket.", err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) DeleteExpiredPermissionTickets(now time.Time) (int, model.UmaError) {
	ctx := context.TODO()

	var dbTickets []dbModel.PermissionTicket
	err := (*sqlRepo.repo).FindAll(ctx, &dbTickets, where.Lt("expiration", now))
	if err != nil {
		return 0, model.NewServerError("Was not able to query for expired tickets.", err)
	}
	deleted := 0
	for _, dbTicket := range dbTickets {
		loadedTicket, umaErr := sqlRepo.getSqlTicket(dbTicket.Uid)
		if umaErr != (model.UmaError{}) {
			return deleted, umaErr
		}
		err = (*sqlRepo.repo).Transaction(ctx, func(ctx context.Context) error {
			return sqlRepo.removeTicket(ctx, loadedTicket)
		})
		if err != nil {
			return deleted, model.NewServerError(fmt.Sprintf("Was not able to delete expired ticket %s.", dbTicket.Uid), err)
		}
		deleted++
	}
	return deleted, model.UmaError{}
}

func (sqlRepo *SqlRepo) removeTicket(ctx context.Context, dbTicket dbModel.PermissionTicket) error {
	for _, dbClaim := range dbTicket.ClaimsSupplied {
		if err := (*sqlRepo.repo).Delete(ctx, &dbClaim); err != nil {
			return err
		}
	}
	return (*sqlRepo.repo).Delete(ctx, &dbTicket)
}

func (sqlRepo *SqlRepo) persistTicket(dbTicket dbModel.PermissionTicket) error {
	ctx := context.TODO()

	return (*sqlRepo.repo).Transaction(ctx, func(ctx context.Context) error {
		err := (*sqlRepo.repo).Insert(ctx, &dbTicket)
		if err != nil {
			return err
		}
		for _, dbClaim := range dbTicket.ClaimsSupplied {
			err = (*sqlRepo.repo).Update(ctx, &dbClaim)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (sqlRepo *SqlRepo) SaveRequestingPartyToken(rpt model.RequestingPartyToken) model.UmaError {
	dbRpt := dbModel.RequestingPartyToken{Token: rpt.Token, ClientId: rpt.ClientId, Expires: rpt.Expires, User: rpt.User}
	err := (*sqlRepo.repo).Insert(context.TODO(), &dbRpt)
	if err != nil {
		return model.NewServerError("Was not able to store requesting party token.", err)
	}
	return model.UmaError{}
}

func (sqlRepo *SqlRepo) GetRequestingPartyToken(token string) (model.RequestingPartyToken, model.UmaError) {
	var dbRpt dbModel.RequestingPartyToken
	err := (*sqlRepo.repo).Find(context.TODO(), &dbRpt, where.Eq("token", token))
	if err != nil {
		return model.RequestingPartyToken{}, model.NewUmaError(model.InvalidRptToken, "The RPT provided is invalid")
	}
	return model.RequestingPartyToken{Token: dbRpt.Token, ClientId: dbRpt.ClientId, Expires: dbRpt.Expires, User: dbRpt.User}, model.UmaError{}
}

func (sqlRepo *SqlRepo) LoadUserDetails(userId string) ([]model.SuppliedClaim, model.UmaError) {
	var dbDetails []dbModel.UserDetail
	err := (*sqlRepo.repo).FindAll(context.TODO(), &dbDetails, where.Eq("user_id", userId))
	if err != nil {
		return nil, model.NewServerError("Was not able to load user details.", err)
	}
	if len(dbDetails) == 0 {
		return nil, model.NewUmaError(model.UserDoesNotExist, fmt.Sprintf("User %s not found", userId))
	}
	details := []model.SuppliedClaim{}
	for _, dbDetail := range dbDetails {
		details = append(details, model.SuppliedClaim{Issuer: splitList(dbDetail.Issuer), Name: dbDetail.Name, Value: dbDetail.Value})
	}
	return details, model.UmaError{}
}

// mapping between the domain model and the sql entities, scope and issuer
// lists are stored space-separated

func toSqlResourceSet(resourceSet model.ResourceSet) dbModel.ResourceSet {
	dbResourceSet := dbModel.ResourceSet{
		ID:      resourceSet.Id,
		Name:    resourceSet.Name,
		IconUri: resourceSet.IconUri,
		Type:    resourceSet.Type,
		Scopes:  joinList(resourceSet.Scopes),
		Uri:     resourceSet.Uri,
		Owner:   resourceSet.Owner,
	}
	dbPolicies := []dbModel.Policy{}
	for _, policy := range resourceSet.Policies {
		dbPolicies = append(dbPolicies, toSqlPolicy(policy, resourceSet.Id))
	}
	dbResourceSet.Policies = dbPolicies
	return dbResourceSet
}

func toSqlPolicy(policy model.Policy, resourceSetId string) dbModel.Policy {
	dbPolicy := dbModel.Policy{ID: policy.Id, Name: policy.Name, Scopes: joinList(policy.Scopes), ResourceSet: resourceSetId}
	dbClaims := []dbModel.ClaimRequirement{}
	for _, claim := range policy.ClaimsRequired {
		dbClaims = append(dbClaims, dbModel.ClaimRequirement{
			ID:               claim.Id,
			Name:             claim.Name,
			FriendlyName:     claim.FriendlyName,
			ClaimType:        claim.ClaimType,
			ClaimTokenFormat: claim.ClaimTokenFormat,
			Issuer:           joinList(claim.Issuer),
			Value:            claim.Value,
			Policy:           policy.Id,
		})
	}
	dbPolicy.ClaimsRequired = dbClaims
	return dbPolicy
}

func fromSqlResourceSet(dbResourceSet dbModel.ResourceSet) model.ResourceSet {
	policies := []model.Policy{}
	for _, dbPolicy := range dbResourceSet.Policies {
		claims := []model.ClaimRequirement{}
		for _, dbClaim := range dbPolicy.ClaimsRequired {
			claims = append(claims, model.ClaimRequirement{
				Id:               dbClaim.ID,
				Name:             dbClaim.Name,
				FriendlyName:     dbClaim.FriendlyName,
				ClaimType:        dbClaim.ClaimType,
				ClaimTokenFormat: dbClaim.ClaimTokenFormat,
				Issuer:           splitList(dbClaim.Issuer),
				Value:            dbClaim.Value,
			})
		}
		policies = append(policies, model.Policy{Id: dbPolicy.ID, Name: dbPolicy.Name, Scopes: splitList(dbPolicy.Scopes), ClaimsRequired: claims})
	}
	return model.ResourceSet{
		Id:       dbResourceSet.ID,
		Name:     dbResourceSet.Name,
		IconUri:  dbResourceSet.IconUri,
		Type:     dbResourceSet.Type,
		Scopes:   splitList(dbResourceSet.Scopes),
		Uri:      dbResourceSet.Uri,
		Owner:    dbResourceSet.Owner,
		Policies: policies,
	}
}

func toSqlTicket(ticket model.PermissionTicket) dbModel.PermissionTicket {
	dbTicket := dbModel.PermissionTicket{
		Uid:         ticket.Uid,
		ResourceSet: ticket.Permission.ResourceSetId,
		Scopes:      joinList(ticket.Permission.Scopes),
		Expiration:  ticket.Expiration,
	}
	dbClaims := []dbModel.SuppliedClaim{}
	for _, claim := range ticket.Permission.ClaimsSupplied {
		dbClaims = append(dbClaims, dbModel.SuppliedClaim{Issuer: joinList(claim.Issuer), Name: claim.Name, Value: claim.Value, Ticket: ticket.Uid})
	}
	dbTicket.ClaimsSupplied = dbClaims
	return dbTicket
}

func fromSqlTicket(dbTicket dbModel.PermissionTicket) model.PermissionTicket {
	claims := []model.SuppliedClaim{}
	for _, dbClaim := range dbTicket.ClaimsSupplied {
		claims = append(claims, model.SuppliedClaim{Issuer: splitList(dbClaim.Issuer), Name: dbClaim.Name, Value: dbClaim.Value})
	}
	return model.PermissionTicket{
		Uid: dbTicket.Uid,
		Permission: model.Permission{
			ResourceSetId:  dbTicket.ResourceSet,
			Scopes:         splitList(dbTicket.Scopes),
			ClaimsSupplied: claims,
		},
		Expiration: dbTicket.Expiration,
	}
}

func joinList(values []string) string {
	return strings.Join(values, " ")
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, " ")
}
